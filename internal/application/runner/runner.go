// Package runner simulates job execution. Jobs transitioned to RUNNING are
// handed to a worker pool; after a bounded wait each job is resolved to a
// terminal state, unless an admin resolved it first.
package runner

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/internal/repository"
)

const (
	maxSimulatedSeconds = 10
	queueCapacity       = 128
)

// StartRequest describes a started job to simulate.
type StartRequest struct {
	JobID          uint
	EstimatedHours float64
	NumGPUs        int
}

// Outcome is a terminal resolution for a running job.
type Outcome struct {
	Status       job.JobStatus // StatusCompleted or StatusFailed
	ErrorMessage string        // set iff StatusFailed
}

// OutcomeResolver decides how a simulated run ends. A real compute backend
// can replace it without touching the re-fetch/guard/commit protocol.
type OutcomeResolver interface {
	Resolve(req StartRequest) Outcome
}

// SimulatedDuration stands in for "duration proportional to requested work",
// capped to keep demo runs fast.
func SimulatedDuration(estimatedHours float64, numGPUs int) time.Duration {
	secs := int(math.Round(estimatedHours * float64(numGPUs)))
	if secs < 1 {
		secs = 1
	}
	if secs > maxSimulatedSeconds {
		secs = maxSimulatedSeconds
	}
	return time.Duration(secs) * time.Second
}

// Runner is the worker pool consuming start events.
type Runner struct {
	repos    *repository.Repos
	resolver OutcomeResolver
	queue    chan StartRequest
	workers  int
	wg       sync.WaitGroup

	// wait is swapped out in tests to avoid real sleeps.
	wait func(d time.Duration) <-chan time.Time
}

func New(repos *repository.Repos, resolver OutcomeResolver, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		repos:    repos,
		resolver: resolver,
		queue:    make(chan StartRequest, queueCapacity),
		workers:  workers,
		wait:     func(d time.Duration) <-chan time.Time { return time.After(d) },
	}
}

// Start launches the workers. ctx cancellation aborts waits in progress;
// affected jobs stay RUNNING (known limitation, logged).
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}
	log.Printf("Job runner started with %d workers", r.workers)
}

// Enqueue schedules a started job for simulation. The triggering request
// does not block on the run itself.
func (r *Runner) Enqueue(j *job.Job) {
	r.queue <- StartRequest{
		JobID:          j.ID,
		EstimatedHours: j.EstimatedHours,
		NumGPUs:        j.NumGPUs,
	}
}

// Stop closes the queue and waits for in-flight runs to drain.
func (r *Runner) Stop() {
	close(r.queue)
	r.wg.Wait()
	log.Println("Job runner stopped")
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()
	for req := range r.queue {
		r.execute(ctx, req)
	}
}

// execute runs one simulation. Nothing here may propagate: a panic or error
// is logged and the job is left as-is (possibly stuck in RUNNING).
func (r *Runner) execute(ctx context.Context, req StartRequest) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[job-runner] panic while simulating job %d: %v", req.JobID, rec)
		}
	}()

	dur := SimulatedDuration(req.EstimatedHours, req.NumGPUs)
	log.Printf("[job-runner] job %d started | GPUs=%d | hours=%g | simulating %s",
		req.JobID, req.NumGPUs, req.EstimatedHours, dur)

	select {
	case <-ctx.Done():
		log.Printf("[job-runner] shutdown before job %d resolved; job stays RUNNING", req.JobID)
		return
	case <-r.wait(dur):
	}

	if err := r.resolve(req); err != nil {
		log.Printf("[job-runner] failed to resolve job %d: %v", req.JobID, err)
	}
}

// resolve re-opens persistence, re-fetches the job and, only if it is still
// RUNNING, commits the simulated outcome. An admin resolution that landed
// first wins; the runner then no-ops.
func (r *Runner) resolve(req StartRequest) error {
	return r.repos.Transaction(func(tx *repository.Repos) error {
		j, err := tx.Job.FindByIDForUpdate(req.JobID)
		if errors.Is(err, job.ErrJobNotFound) {
			log.Printf("[job-runner] job %d no longer exists, skipping", req.JobID)
			return nil
		}
		if err != nil {
			return err
		}

		if j.Status != job.StatusRunning {
			log.Printf("[job-runner] job %d status is %s, not RUNNING, skipping", j.ID, j.Status)
			return nil
		}

		outcome := r.resolver.Resolve(req)
		now := time.Now().UTC()
		if outcome.Status == job.StatusFailed {
			if err := j.Apply(job.TransitionFail, now); err != nil {
				return err
			}
			msg := outcome.ErrorMessage
			j.ErrorMessage = &msg
			log.Printf("[job-runner] job %d FAILED: %s", j.ID, msg)
		} else {
			if err := j.Apply(job.TransitionComplete, now); err != nil {
				return err
			}
			log.Printf("[job-runner] job %d COMPLETED", j.ID)
		}

		return tx.Job.Save(j)
	})
}
