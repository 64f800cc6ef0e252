package job

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApply_LegalTransitions(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name       string
		from       JobStatus
		transition Transition
		want       JobStatus
	}{
		{"approve pending", StatusPending, TransitionApprove, StatusApproved},
		{"reject pending", StatusPending, TransitionReject, StatusRejected},
		{"start approved", StatusApproved, TransitionStart, StatusRunning},
		{"complete running", StatusRunning, TransitionComplete, StatusCompleted},
		{"fail running", StatusRunning, TransitionFail, StatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := &Job{Status: tc.from}
			err := j.Apply(tc.transition, now)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, j.Status)
		})
	}
}

func TestApply_SetsTimestamps(t *testing.T) {
	now := time.Now()

	j := &Job{Status: StatusApproved}
	assert.NoError(t, j.Apply(TransitionStart, now))
	if assert.NotNil(t, j.StartedAt) {
		assert.Equal(t, now, *j.StartedAt)
	}
	assert.Nil(t, j.FinishedAt)

	assert.NoError(t, j.Apply(TransitionComplete, now))
	if assert.NotNil(t, j.FinishedAt) {
		assert.Equal(t, now, *j.FinishedAt)
	}
	assert.Nil(t, j.ErrorMessage)
}

func TestApply_CompleteClearsErrorMessage(t *testing.T) {
	msg := "stale"
	j := &Job{Status: StatusRunning, ErrorMessage: &msg}
	assert.NoError(t, j.Apply(TransitionComplete, time.Now()))
	assert.Nil(t, j.ErrorMessage)
}

func TestApply_IllegalTransitionLeavesJobUnchanged(t *testing.T) {
	now := time.Now()

	cases := []struct {
		from       JobStatus
		transition Transition
	}{
		{StatusPending, TransitionStart},
		{StatusPending, TransitionComplete},
		{StatusPending, TransitionFail},
		{StatusApproved, TransitionApprove},
		{StatusApproved, TransitionReject},
		{StatusApproved, TransitionComplete},
		{StatusRunning, TransitionApprove},
		{StatusRunning, TransitionStart},
		{StatusRejected, TransitionApprove},
		{StatusRejected, TransitionStart},
		{StatusCompleted, TransitionFail},
		{StatusCompleted, TransitionComplete},
		{StatusFailed, TransitionComplete},
		{StatusFailed, TransitionStart},
	}

	for _, tc := range cases {
		t.Run(string(tc.transition)+" from "+string(tc.from), func(t *testing.T) {
			j := &Job{Status: tc.from}
			before := *j

			err := j.Apply(tc.transition, now)

			var invalid *InvalidTransitionError
			if assert.True(t, errors.As(err, &invalid)) {
				assert.Equal(t, tc.transition, invalid.Transition)
				assert.Equal(t, tc.from, invalid.Current)
			}
			assert.Equal(t, before, *j)
		})
	}
}

func TestApproveRejectMutuallyExclusive(t *testing.T) {
	now := time.Now()

	j := &Job{Status: StatusPending}
	assert.NoError(t, j.Apply(TransitionApprove, now))

	err := j.Apply(TransitionReject, now)
	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, StatusApproved, j.Status)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.False(t, StatusRunning.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("RUNNING")
	assert.True(t, ok)
	assert.Equal(t, StatusRunning, s)

	_, ok = ParseStatus("running")
	assert.False(t, ok)

	_, ok = ParseStatus("DELETED")
	assert.False(t, ok)
}

func TestRequestedHours(t *testing.T) {
	j := &Job{NumGPUs: 2, EstimatedHours: 5}
	assert.Equal(t, 10.0, j.RequestedHours())
}
