package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/gpuaas-go/internal/api/middleware"
	appjob "github.com/linskybing/gpuaas-go/internal/application/job"
	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/internal/domain/quota"
	"github.com/linskybing/gpuaas-go/internal/storage"
	"github.com/linskybing/gpuaas-go/pkg/response"
	"github.com/linskybing/gpuaas-go/pkg/utils"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// JobHandler handles job submission and owner-scoped reads.
type JobHandler struct {
	svc   *appjob.Service
	store *storage.Client
}

func NewJobHandler(svc *appjob.Service, store *storage.Client) *JobHandler {
	return &JobHandler{svc: svc, store: store}
}

// statusFilter parses the optional ?status= query. ok is false if the value
// is present but not a valid status.
func statusFilter(c *gin.Context) (*job.JobStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	s, ok := job.ParseStatus(raw)
	if !ok {
		return nil, false
	}
	return &s, true
}

// CreateJob godoc
// @Summary Submit a GPU job
// @Tags jobs
// @Accept json
// @Produce json
// @Param input body job.CreateJobInput true "Job spec"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse "Invalid payload or insufficient quota"
// @Failure 500 {object} response.ErrorResponse "Quota record missing"
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var input job.CreateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid payload: " + err.Error()})
		return
	}

	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	created, err := h.svc.CreateJob(c.Request.Context(), u.ID, input)
	if err != nil {
		var insufficient *quota.InsufficientQuotaError
		switch {
		case errors.As(err, &insufficient):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: insufficient.Error()})
		case errors.Is(err, quota.ErrQuotaNotFound):
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, response.SuccessResponse{Code: 0, Message: "created", Data: created})
}

// ListJobs godoc
// @Summary List own jobs, newest first
// @Tags jobs
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.SuccessResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	status, ok := statusFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid status filter"})
		return
	}

	jobs, err := h.svc.ListJobs(c.Request.Context(), u.ID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Code: 0, Message: "success", Data: jobs})
}

// GetJob godoc
// @Summary Job detail (owner or admin)
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid id"})
		return
	}

	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	j, err := h.svc.GetJob(c.Request.Context(), id, u.ID, u.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrJobNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		case errors.Is(err, job.ErrNotOwner):
			c.JSON(http.StatusForbidden, response.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Code: 0, Message: "success", Data: j})
}

// JobDataUploadURL godoc
// @Summary Presigned upload URL for the job's input data
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.UploadURLResponse
// @Router /jobs/{id}/data-url [post]
func (h *JobHandler) JobDataUploadURL(c *gin.Context) {
	h.jobDataURL(c, true)
}

// JobDataDownloadURL godoc
// @Summary Presigned download URL for the job's input data
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.UploadURLResponse
// @Router /jobs/{id}/data-url [get]
func (h *JobHandler) JobDataDownloadURL(c *gin.Context) {
	h.jobDataURL(c, false)
}

func (h *JobHandler) jobDataURL(c *gin.Context, upload bool) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: "data staging is not configured"})
		return
	}

	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid id"})
		return
	}

	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	// Owner/admin check rides on the same rule as job detail.
	j, err := h.svc.GetJob(c.Request.Context(), id, u.ID, u.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrJobNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		case errors.Is(err, job.ErrNotOwner):
			c.JSON(http.StatusForbidden, response.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}

	object := storage.JobDataObject(j.ID)
	var signed *url.URL
	if upload {
		signed, err = h.store.PresignedPut(c.Request.Context(), object)
	} else {
		signed, err = h.store.PresignedGet(c.Request.Context(), object)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to sign data URL: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.UploadURLResponse{
		URL:       signed.String(),
		Object:    object,
		ExpiresIn: int(storage.DataURLExpiry.Seconds()),
	})
}

// StreamJobs streams the caller's jobs over WebSocket (admins see all jobs).
func (h *JobHandler) StreamJobs(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "websocket upgrade failed: " + err.Error()})
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := c.Request.Context()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	// Reader to consume control frames and detect close
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var jobs []job.Job
			var err error
			if u.IsAdmin {
				jobs, err = h.svc.ListAllJobs(ctx, nil)
			} else {
				jobs, err = h.svc.ListJobs(ctx, u.ID, nil)
			}
			if err != nil {
				_ = conn.WriteMessage(websocket.TextMessage, []byte("{}"))
				continue
			}

			payload, _ := json.Marshal(jobs)
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
