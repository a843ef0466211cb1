package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/caseflow/caseflow/internal/recognition"
)

type RecognizerMock struct {
	mock.Mock
}

func (m *RecognizerMock) Process(ctx context.Context, documentID uint, storageKey string) (recognition.Result, error) {
	args := m.Called(ctx, documentID, storageKey)

	res, _ := args.Get(0).(recognition.Result)
	return res, args.Error(1)
}
