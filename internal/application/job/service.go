package job

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/internal/repository"
	"gorm.io/datatypes"
)

// adminFailureMessage is recorded when an admin manually fails a job, so a
// FAILED job always carries an error message.
const adminFailureMessage = "Marked as failed by administrator"

// JobStarter receives jobs that entered RUNNING. Satisfied by the runner.
type JobStarter interface {
	Enqueue(j *job.Job)
}

// Service orchestrates job creation and lifecycle transitions. It sequences
// the quota ledger, the state machine and the runner; no further business
// logic lives here.
type Service struct {
	repos  *repository.Repos
	runner JobStarter
}

func NewService(repos *repository.Repos, starter JobStarter) *Service {
	return &Service{repos: repos, runner: starter}
}

// CreateJob admits the request against the user's quota and inserts the job,
// both inside one transaction. Debited hours are never refunded, even if the
// job is later rejected or fails.
func (s *Service) CreateJob(ctx context.Context, userID uint, input job.CreateJobInput) (*job.Job, error) {
	var labels datatypes.JSON
	if len(input.Labels) > 0 {
		raw, err := json.Marshal(input.Labels)
		if err != nil {
			return nil, err
		}
		labels = datatypes.JSON(raw)
	}

	newJob := &job.Job{
		UserID:         userID,
		Name:           input.Name,
		GPUType:        input.GPUType,
		NumGPUs:        input.NumGPUs,
		EstimatedHours: input.EstimatedHours,
		Command:        input.Command,
		DataLocation:   input.DataLocation,
		IsSensitive:    input.IsSensitive,
		Labels:         labels,
		Status:         job.StatusPending,
	}

	requested := newJob.RequestedHours()
	err := s.repos.Transaction(func(tx *repository.Repos) error {
		if err := tx.Quota.CheckAndDebit(userID, requested); err != nil {
			return err
		}
		return tx.Job.Create(newJob)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Created job %d (%s) in PENDING state, debited %gh from user %d", newJob.ID, newJob.Name, requested, userID)
	return newJob, nil
}

// ListJobs returns the user's own jobs, newest first.
func (s *Service) ListJobs(ctx context.Context, userID uint, status *job.JobStatus) ([]job.Job, error) {
	return s.repos.Job.FindByUserID(userID, status)
}

// ListAllJobs returns every job, newest first. Admin listing only.
func (s *Service) ListAllJobs(ctx context.Context, status *job.JobStatus) ([]job.Job, error) {
	return s.repos.Job.FindAll(status)
}

// GetJob returns a job if the requester owns it or is an admin.
func (s *Service) GetJob(ctx context.Context, jobID, requesterID uint, isAdmin bool) (*job.Job, error) {
	j, err := s.repos.Job.FindByID(jobID)
	if err != nil {
		return nil, err
	}
	if j.UserID != requesterID && !isAdmin {
		return nil, job.ErrNotOwner
	}
	return j, nil
}

// Transition performs an admin lifecycle transition. The job row is locked
// while the state machine check and the write happen, so a concurrent runner
// resolution cannot interleave. On start, the runner is handed the job after
// the transaction commits; the request does not wait for the run.
func (s *Service) Transition(ctx context.Context, jobID uint, t job.Transition) (*job.Job, error) {
	var updated *job.Job
	err := s.repos.Transaction(func(tx *repository.Repos) error {
		j, err := tx.Job.FindByIDForUpdate(jobID)
		if err != nil {
			return err
		}

		if err := j.Apply(t, time.Now().UTC()); err != nil {
			return err
		}
		if t == job.TransitionFail {
			msg := adminFailureMessage
			j.ErrorMessage = &msg
		}

		if err := tx.Job.Save(j); err != nil {
			return err
		}
		updated = j
		return nil
	})
	if err != nil {
		return nil, err
	}

	if t == job.TransitionStart && s.runner != nil {
		s.runner.Enqueue(updated)
	}

	log.Printf("Job %d transitioned via %s to %s", updated.ID, t, updated.Status)
	return updated, nil
}
