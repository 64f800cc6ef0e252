package job

import (
	"errors"
	"fmt"
	"time"
)

// ErrJobNotFound is returned when a transition or lookup targets a job id
// that does not exist.
var ErrJobNotFound = errors.New("job not found")

// ErrNotOwner is returned when a non-owning, non-admin user requests job
// detail.
var ErrNotOwner = errors.New("not enough permissions to view this job")

// Transition names an edge of the job lifecycle.
type Transition string

const (
	TransitionApprove  Transition = "approve"
	TransitionReject   Transition = "reject"
	TransitionStart    Transition = "start"
	TransitionComplete Transition = "complete"
	TransitionFail     Transition = "fail"
)

// transitions maps every legal edge to its required current status and the
// resulting status. Anything not in this table is illegal.
var transitions = map[Transition]struct {
	From JobStatus
	To   JobStatus
}{
	TransitionApprove:  {From: StatusPending, To: StatusApproved},
	TransitionReject:   {From: StatusPending, To: StatusRejected},
	TransitionStart:    {From: StatusApproved, To: StatusRunning},
	TransitionComplete: {From: StatusRunning, To: StatusCompleted},
	TransitionFail:     {From: StatusRunning, To: StatusFailed},
}

// InvalidTransitionError reports an illegal transition attempt; the job is
// left untouched.
type InvalidTransitionError struct {
	Transition Transition
	Current    JobStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a job in status %s", e.Transition, e.Current)
}

// ParseTransition resolves an admin action name from the URL.
func ParseTransition(s string) (Transition, bool) {
	switch Transition(s) {
	case TransitionApprove, TransitionReject, TransitionStart, TransitionComplete, TransitionFail:
		return Transition(s), true
	}
	return "", false
}

// Apply performs t on j at the given time, updating status and the
// started/finished timestamps. On an illegal transition it returns
// InvalidTransitionError and leaves j unmodified.
func (j *Job) Apply(t Transition, now time.Time) error {
	edge, ok := transitions[t]
	if !ok || j.Status != edge.From {
		return &InvalidTransitionError{Transition: t, Current: j.Status}
	}

	j.Status = edge.To
	switch edge.To {
	case StatusRunning:
		j.StartedAt = &now
	case StatusCompleted:
		j.FinishedAt = &now
		j.ErrorMessage = nil
	case StatusFailed:
		j.FinishedAt = &now
	}
	return nil
}
