package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/caseflow/caseflow/internal/models"
)

type CaseRepoMock struct {
	mock.Mock
}

func (m *CaseRepoMock) Create(ctx context.Context, c *models.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CaseRepoMock) Get(ctx context.Context, id uint) (*models.Case, error) {
	args := m.Called(ctx, id)

	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *CaseRepoMock) UpdateLifecycleStatus(ctx context.Context, id uint, status models.CaseStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *CaseRepoMock) MarkFailed(ctx context.Context, id uint, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}
