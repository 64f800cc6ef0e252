//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/internal/domain/quota"
)

// registerAndLogin creates a fresh user through the API and returns an
// authenticated client plus the user id. Fresh users keep quota state
// isolated between tests.
func registerAndLogin(t *testing.T, email string) (*HTTPClient, uint) {
	t.Helper()
	anon := NewHTTPClient(testCtx.Router, "")

	resp, err := anon.POST("/auth/register", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))

	resp, err = anon.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	var token struct {
		AccessToken string `json:"access_token"`
		UserID      uint   `json:"user_id"`
	}
	require.NoError(t, resp.DecodeJSON(&token))
	return NewHTTPClient(testCtx.Router, token.AccessToken), token.UserID
}

// submitJob posts a job for the client and returns the created job.
func submitJob(t *testing.T, client *HTTPClient, hours float64, gpus int) job.Job {
	t.Helper()
	resp, err := client.POST("/jobs", map[string]interface{}{
		"name":            "test-job",
		"gpu_type":        "A100",
		"num_gpus":        gpus,
		"estimated_hours": hours,
		"command":         "python train.py",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))
	return decodeJob(t, resp)
}

func decodeJob(t *testing.T, resp *Response) job.Job {
	t.Helper()
	var envelope struct {
		Data job.Job `json:"data"`
	}
	require.NoError(t, resp.DecodeJSON(&envelope))
	return envelope.Data
}

func decodeJobs(t *testing.T, resp *Response) []job.Job {
	t.Helper()
	var envelope struct {
		Data []job.Job `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &envelope))
	return envelope.Data
}

func quotaOf(t *testing.T, userID uint) quota.UserQuota {
	t.Helper()
	var q quota.UserQuota
	require.NoError(t, testCtx.DB.Where("user_id = ?", userID).First(&q).Error)
	return q
}

// adminTransition invokes an admin lifecycle endpoint for the job.
func adminTransition(t *testing.T, jobID uint, action string) *Response {
	t.Helper()
	admin := NewHTTPClient(testCtx.Router, testCtx.AdminToken)
	resp, err := admin.POST(fmt.Sprintf("/admin/jobs/%d/%s", jobID, action), nil)
	require.NoError(t, err)
	return resp
}

// waitForTerminal polls the job until it leaves RUNNING or the timeout hits.
func waitForTerminal(t *testing.T, client *HTTPClient, jobID uint, timeout time.Duration) job.Job {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.GET(fmt.Sprintf("/jobs/%d", jobID))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

		j := decodeJob(t, resp)
		if j.Status.IsTerminal() {
			return j
		}
		time.Sleep(200 * time.Millisecond)
	}
	t.Fatalf("job %d did not reach a terminal state within %s", jobID, timeout)
	return job.Job{}
}
