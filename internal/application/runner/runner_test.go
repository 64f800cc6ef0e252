package runner

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/internal/repository"
	mockrepo "github.com/linskybing/gpuaas-go/internal/repository/mock"
)

type fixedResolver struct {
	outcome Outcome
}

func (f *fixedResolver) Resolve(req StartRequest) Outcome {
	return f.outcome
}

// noWait makes simulated durations elapse immediately.
func noWait(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func setupRunner(t *testing.T, outcome Outcome) (*Runner, *mockrepo.MockJobRepo) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	mockJob := mockrepo.NewMockJobRepo(ctrl)
	repos := &repository.Repos{Job: mockJob}

	r := New(repos, &fixedResolver{outcome: outcome}, 1)
	r.wait = noWait
	return r, mockJob
}

// --------------------- SimulatedDuration ---------------------
func TestSimulatedDuration(t *testing.T) {
	cases := []struct {
		name  string
		hours float64
		gpus  int
		want  time.Duration
	}{
		{"tiny request floors at one second", 0.1, 1, 1 * time.Second},
		{"proportional to hours times gpus", 1.5, 2, 3 * time.Second},
		{"rounds to nearest second", 2.4, 1, 2 * time.Second},
		{"large request caps at ten seconds", 100, 8, 10 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SimulatedDuration(tc.hours, tc.gpus))
		})
	}
}

// --------------------- RandomResolver ---------------------
func TestRandomResolver_OutcomeShape(t *testing.T) {
	r := NewRandomResolver()
	for i := 0; i < 100; i++ {
		out := r.Resolve(StartRequest{JobID: 1})
		switch out.Status {
		case job.StatusCompleted:
			assert.Empty(t, out.ErrorMessage)
		case job.StatusFailed:
			assert.Equal(t, "Simulated GPU failure", out.ErrorMessage)
		default:
			t.Fatalf("unexpected outcome status %s", out.Status)
		}
	}
}

// --------------------- execute ---------------------
func TestExecute_CommitsCompleted(t *testing.T) {
	r, mockJob := setupRunner(t, Outcome{Status: job.StatusCompleted})

	msg := "leftover"
	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{
		ID:           5,
		Status:       job.StatusRunning,
		ErrorMessage: &msg,
	}, nil)
	mockJob.EXPECT().Save(gomock.Any()).DoAndReturn(func(j *job.Job) error {
		assert.Equal(t, job.StatusCompleted, j.Status)
		assert.Nil(t, j.ErrorMessage)
		assert.NotNil(t, j.FinishedAt)
		return nil
	})

	r.execute(context.Background(), StartRequest{JobID: 5, EstimatedHours: 1, NumGPUs: 1})
}

func TestExecute_CommitsFailedWithMessage(t *testing.T) {
	r, mockJob := setupRunner(t, Outcome{Status: job.StatusFailed, ErrorMessage: "Simulated GPU failure"})

	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{ID: 5, Status: job.StatusRunning}, nil)
	mockJob.EXPECT().Save(gomock.Any()).DoAndReturn(func(j *job.Job) error {
		assert.Equal(t, job.StatusFailed, j.Status)
		if assert.NotNil(t, j.ErrorMessage) {
			assert.Equal(t, "Simulated GPU failure", *j.ErrorMessage)
		}
		assert.NotNil(t, j.FinishedAt)
		return nil
	})

	r.execute(context.Background(), StartRequest{JobID: 5, EstimatedHours: 1, NumGPUs: 1})
}

func TestExecute_SkipsJobNoLongerRunning(t *testing.T) {
	r, mockJob := setupRunner(t, Outcome{Status: job.StatusCompleted})

	// Admin failed the job while the simulation was waiting.
	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{ID: 5, Status: job.StatusFailed}, nil)
	// No Save: the admin's resolution stands.

	r.execute(context.Background(), StartRequest{JobID: 5, EstimatedHours: 1, NumGPUs: 1})
}

func TestExecute_SkipsDeletedJob(t *testing.T) {
	r, mockJob := setupRunner(t, Outcome{Status: job.StatusCompleted})

	mockJob.EXPECT().FindByIDForUpdate(uint(404)).Return(nil, job.ErrJobNotFound)

	r.execute(context.Background(), StartRequest{JobID: 404, EstimatedHours: 1, NumGPUs: 1})
}

func TestExecute_ShutdownLeavesJobRunning(t *testing.T) {
	r, _ := setupRunner(t, Outcome{Status: job.StatusCompleted})
	// Block the wait so cancellation is what unblocks execute.
	r.wait = func(d time.Duration) <-chan time.Time { return make(chan time.Time) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// No repo expectations: a cancelled run must not touch the store.
	r.execute(ctx, StartRequest{JobID: 5, EstimatedHours: 1, NumGPUs: 1})
}

// --------------------- Stop ---------------------
func TestStop_DrainsQueuedJobs(t *testing.T) {
	r, mockJob := setupRunner(t, Outcome{Status: job.StatusCompleted})

	for _, id := range []uint{1, 2, 3} {
		mockJob.EXPECT().FindByIDForUpdate(id).Return(&job.Job{ID: id, Status: job.StatusRunning}, nil)
	}
	mockJob.EXPECT().Save(gomock.Any()).Return(nil).Times(3)

	r.Start(context.Background())
	for _, id := range []uint{1, 2, 3} {
		r.Enqueue(&job.Job{ID: id, EstimatedHours: 1, NumGPUs: 1})
	}
	r.Stop()
}
