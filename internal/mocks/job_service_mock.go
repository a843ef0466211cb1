package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/caseflow/caseflow/internal/dto"
	"github.com/caseflow/caseflow/internal/models"
)

type JobServiceMock struct {
	mock.Mock
}

func (m *JobServiceMock) CreateCase(ctx context.Context) (*models.Case, error) {
	args := m.Called(ctx)

	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *JobServiceMock) AddDocument(ctx context.Context, caseID uint, req *dto.CreateDocumentRequest) (*models.Document, error) {
	args := m.Called(ctx, caseID, req)

	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *JobServiceMock) Enqueue(ctx context.Context, req *dto.EnqueueJobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)

	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *JobServiceMock) GetJob(ctx context.Context, id uint) (*dto.JobResponse, error) {
	args := m.Called(ctx, id)

	resp, _ := args.Get(0).(*dto.JobResponse)
	return resp, args.Error(1)
}

func (m *JobServiceMock) GetCaseStatus(ctx context.Context, id uint) (*dto.CaseStatusResponse, error) {
	args := m.Called(ctx, id)

	resp, _ := args.Get(0).(*dto.CaseStatusResponse)
	return resp, args.Error(1)
}
