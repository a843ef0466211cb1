package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"github.com/caseflow/caseflow/internal/models"
)

type JobRepoMock struct {
	mock.Mock
}

func (m *JobRepoMock) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobRepoMock) Get(ctx context.Context, id uint) (*models.Job, error) {
	args := m.Called(ctx, id)

	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *JobRepoMock) ListByCase(ctx context.Context, caseID uint) ([]models.Job, error) {
	args := m.Called(ctx, caseID)

	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *JobRepoMock) ClaimNext(ctx context.Context) (*models.ClaimedJob, error) {
	args := m.Called(ctx)

	claimed, _ := args.Get(0).(*models.ClaimedJob)
	return claimed, args.Error(1)
}

func (m *JobRepoMock) ClaimByID(ctx context.Context, id uint) (*models.ClaimedJob, error) {
	args := m.Called(ctx, id)

	claimed, _ := args.Get(0).(*models.ClaimedJob)
	return claimed, args.Error(1)
}

func (m *JobRepoMock) MarkCompleted(ctx context.Context, id uint, result datatypes.JSON) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *JobRepoMock) MarkFailed(ctx context.Context, id uint, msg string) error {
	args := m.Called(ctx, id, msg)
	return args.Error(0)
}

func (m *JobRepoMock) Requeue(ctx context.Context, id uint, msg string) error {
	args := m.Called(ctx, id, msg)
	return args.Error(0)
}

func (m *JobRepoMock) CountByCase(ctx context.Context, caseID uint) (models.JobCounts, error) {
	args := m.Called(ctx, caseID)

	counts, _ := args.Get(0).(models.JobCounts)
	return counts, args.Error(1)
}
