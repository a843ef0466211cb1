package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/caseflow/caseflow/internal/models"
)

type DocumentRepoMock struct {
	mock.Mock
}

func (m *DocumentRepoMock) Create(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *DocumentRepoMock) Get(ctx context.Context, id uint) (*models.Document, error) {
	args := m.Called(ctx, id)

	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *DocumentRepoMock) ListByCase(ctx context.Context, caseID uint) ([]models.Document, error) {
	args := m.Called(ctx, caseID)

	docs, _ := args.Get(0).([]models.Document)
	return docs, args.Error(1)
}
