package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/internal/domain/quota"
	"github.com/linskybing/gpuaas-go/internal/repository"
	mockrepo "github.com/linskybing/gpuaas-go/internal/repository/mock"
)

type fakeStarter struct {
	started []*job.Job
}

func (f *fakeStarter) Enqueue(j *job.Job) {
	f.started = append(f.started, j)
}

// --------------------- Setup ---------------------
func setupJobServiceMocks(t *testing.T) (*Service, *mockrepo.MockJobRepo, *mockrepo.MockQuotaRepo, *fakeStarter) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	mockJob := mockrepo.NewMockJobRepo(ctrl)
	mockQuota := mockrepo.NewMockQuotaRepo(ctrl)
	repos := &repository.Repos{
		Job:   mockJob,
		Quota: mockQuota,
	}
	starter := &fakeStarter{}
	svc := NewService(repos, starter)
	return svc, mockJob, mockQuota, starter
}

func validInput() job.CreateJobInput {
	return job.CreateJobInput{
		Name:           "train-resnet",
		GPUType:        "A100",
		NumGPUs:        2,
		EstimatedHours: 1.5,
		Command:        "python train.py",
	}
}

// --------------------- CreateJob ---------------------
func TestCreateJob_DebitsGPUHoursTimesGPUs(t *testing.T) {
	svc, mockJob, mockQuota, _ := setupJobServiceMocks(t)

	// 1.5h on 2 GPUs costs 3h.
	mockQuota.EXPECT().CheckAndDebit(uint(1), 3.0).Return(nil)
	mockJob.EXPECT().Create(gomock.Any()).DoAndReturn(func(j *job.Job) error {
		assert.Equal(t, job.StatusPending, j.Status)
		assert.Equal(t, uint(1), j.UserID)
		j.ID = 42
		return nil
	})

	created, err := svc.CreateJob(context.Background(), 1, validInput())
	assert.NoError(t, err)
	assert.Equal(t, uint(42), created.ID)
	assert.Nil(t, created.StartedAt)
	assert.Nil(t, created.ErrorMessage)
}

func TestCreateJob_InsufficientQuota(t *testing.T) {
	svc, _, mockQuota, _ := setupJobServiceMocks(t)

	mockQuota.EXPECT().CheckAndDebit(uint(1), 3.0).Return(
		&quota.InsufficientQuotaError{Requested: 3.0, Available: 2.0},
	)
	// No job insert is attempted when admission fails.

	created, err := svc.CreateJob(context.Background(), 1, validInput())
	assert.Nil(t, created)

	var insufficient *quota.InsufficientQuotaError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3.0, insufficient.Requested)
	assert.Equal(t, 2.0, insufficient.Available)
}

func TestCreateJob_QuotaRowMissing(t *testing.T) {
	svc, _, mockQuota, _ := setupJobServiceMocks(t)

	mockQuota.EXPECT().CheckAndDebit(uint(1), 3.0).Return(quota.ErrQuotaNotFound)

	_, err := svc.CreateJob(context.Background(), 1, validInput())
	assert.ErrorIs(t, err, quota.ErrQuotaNotFound)
}

// --------------------- GetJob ---------------------
func TestGetJob_OwnerAllowed(t *testing.T) {
	svc, mockJob, _, _ := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByID(uint(5)).Return(&job.Job{ID: 5, UserID: 1}, nil)

	j, err := svc.GetJob(context.Background(), 5, 1, false)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), j.ID)
}

func TestGetJob_NonOwnerForbidden(t *testing.T) {
	svc, mockJob, _, _ := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByID(uint(5)).Return(&job.Job{ID: 5, UserID: 1}, nil)

	_, err := svc.GetJob(context.Background(), 5, 2, false)
	assert.ErrorIs(t, err, job.ErrNotOwner)
}

func TestGetJob_AdminSeesAny(t *testing.T) {
	svc, mockJob, _, _ := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByID(uint(5)).Return(&job.Job{ID: 5, UserID: 1}, nil)

	j, err := svc.GetJob(context.Background(), 5, 99, true)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), j.UserID)
}

func TestGetJob_NotFound(t *testing.T) {
	svc, mockJob, _, _ := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByID(uint(404)).Return(nil, job.ErrJobNotFound)

	_, err := svc.GetJob(context.Background(), 404, 1, false)
	assert.ErrorIs(t, err, job.ErrJobNotFound)
}

// --------------------- Transition ---------------------
func TestTransition_ApprovePending(t *testing.T) {
	svc, mockJob, _, starter := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{ID: 5, Status: job.StatusPending}, nil)
	mockJob.EXPECT().Save(gomock.Any()).DoAndReturn(func(j *job.Job) error {
		assert.Equal(t, job.StatusApproved, j.Status)
		return nil
	})

	updated, err := svc.Transition(context.Background(), 5, job.TransitionApprove)
	assert.NoError(t, err)
	assert.Equal(t, job.StatusApproved, updated.Status)
	assert.Empty(t, starter.started)
}

func TestTransition_StartEnqueuesRunner(t *testing.T) {
	svc, mockJob, _, starter := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{ID: 5, Status: job.StatusApproved}, nil)
	mockJob.EXPECT().Save(gomock.Any()).Return(nil)

	updated, err := svc.Transition(context.Background(), 5, job.TransitionStart)
	assert.NoError(t, err)
	assert.Equal(t, job.StatusRunning, updated.Status)
	assert.NotNil(t, updated.StartedAt)
	if assert.Len(t, starter.started, 1) {
		assert.Equal(t, uint(5), starter.started[0].ID)
	}
}

func TestTransition_ManualFailSetsErrorMessage(t *testing.T) {
	svc, mockJob, _, _ := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{ID: 5, Status: job.StatusRunning}, nil)
	mockJob.EXPECT().Save(gomock.Any()).Return(nil)

	updated, err := svc.Transition(context.Background(), 5, job.TransitionFail)
	assert.NoError(t, err)
	assert.Equal(t, job.StatusFailed, updated.Status)
	if assert.NotNil(t, updated.ErrorMessage) {
		assert.Equal(t, "Marked as failed by administrator", *updated.ErrorMessage)
	}
	assert.NotNil(t, updated.FinishedAt)
}

func TestTransition_IllegalFromTerminal(t *testing.T) {
	svc, mockJob, _, starter := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{ID: 5, Status: job.StatusCompleted}, nil)
	// Save is never reached on an illegal transition.

	_, err := svc.Transition(context.Background(), 5, job.TransitionStart)

	var invalid *job.InvalidTransitionError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, job.StatusCompleted, invalid.Current)
	assert.Empty(t, starter.started)
}

func TestTransition_JobGone(t *testing.T) {
	svc, mockJob, _, _ := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByIDForUpdate(uint(404)).Return(nil, job.ErrJobNotFound)

	_, err := svc.Transition(context.Background(), 404, job.TransitionApprove)
	assert.ErrorIs(t, err, job.ErrJobNotFound)
}

func TestTransition_TimestampsAreUTC(t *testing.T) {
	svc, mockJob, _, _ := setupJobServiceMocks(t)

	mockJob.EXPECT().FindByIDForUpdate(uint(5)).Return(&job.Job{ID: 5, Status: job.StatusApproved}, nil)
	mockJob.EXPECT().Save(gomock.Any()).Return(nil)

	before := time.Now().UTC()
	updated, err := svc.Transition(context.Background(), 5, job.TransitionStart)
	after := time.Now().UTC()

	assert.NoError(t, err)
	if assert.NotNil(t, updated.StartedAt) {
		assert.False(t, updated.StartedAt.Before(before))
		assert.False(t, updated.StartedAt.After(after))
	}
}
