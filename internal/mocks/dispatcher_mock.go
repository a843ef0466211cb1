package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) Dispatch(ctx context.Context, jobID uint) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

type PipelineStarterMock struct {
	mock.Mock
}

func (m *PipelineStarterMock) Start(ctx context.Context, caseID uint) bool {
	args := m.Called(ctx, caseID)
	return args.Bool(0)
}
