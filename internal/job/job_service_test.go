package job

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/caseflow/common"
	"github.com/caseflow/caseflow/internal/dto"
	"github.com/caseflow/caseflow/internal/mocks"
	"github.com/caseflow/caseflow/internal/models"
)

type serviceMocks struct {
	jobs       *mocks.JobRepoMock
	cases      *mocks.CaseRepoMock
	docs       *mocks.DocumentRepoMock
	dispatcher *mocks.DispatcherMock
}

func newServiceForTest(maxAttempts int) (*Service, *serviceMocks) {
	m := &serviceMocks{
		jobs:       new(mocks.JobRepoMock),
		cases:      new(mocks.CaseRepoMock),
		docs:       new(mocks.DocumentRepoMock),
		dispatcher: new(mocks.DispatcherMock),
	}
	syncer := NewSyncer(m.jobs, m.cases)
	return NewService(m.jobs, m.cases, m.docs, m.dispatcher, syncer, maxAttempts), m
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr common.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Status
}

func TestService_Enqueue(t *testing.T) {
	caseRow := &models.Case{ID: 1, Status: models.CaseStatusCreated}
	docRow := &models.Document{ID: 10, CaseID: 1, Filename: "scan.pdf", StorageKey: "cases/scan.pdf"}

	tests := []struct {
		name       string
		req        *dto.EnqueueJobRequest
		setup      func(*serviceMocks)
		wantStatus int
	}{
		{
			name: "creates job, syncs case and dispatches",
			req:  &dto.EnqueueJobRequest{CaseID: 1, DocumentID: 10},
			setup: func(m *serviceMocks) {
				m.cases.On("Get", mock.Anything, uint(1)).Return(caseRow, nil)
				m.docs.On("Get", mock.Anything, uint(10)).Return(docRow, nil)
				m.jobs.On("Create", mock.Anything, mock.MatchedBy(func(j *models.Job) bool {
					return j.CaseID == 1 &&
						j.DocumentID == 10 &&
						j.Status == models.JobStatusQueued &&
						j.MaxAttempts == 3 &&
						j.Attempts == 0
				})).Return(nil)
				m.jobs.On("CountByCase", mock.Anything, uint(1)).
					Return(models.JobCounts{Queued: 1}, nil)
				m.cases.On("UpdateLifecycleStatus", mock.Anything, uint(1), models.CaseStatusProcessing).
					Return(nil)
				m.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name: "unknown case",
			req:  &dto.EnqueueJobRequest{CaseID: 2, DocumentID: 10},
			setup: func(m *serviceMocks) {
				m.cases.On("Get", mock.Anything, uint(2)).
					Return(nil, errors.New("case not found: record not found"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "unknown document",
			req:  &dto.EnqueueJobRequest{CaseID: 1, DocumentID: 11},
			setup: func(m *serviceMocks) {
				m.cases.On("Get", mock.Anything, uint(1)).Return(caseRow, nil)
				m.docs.On("Get", mock.Anything, uint(11)).
					Return(nil, errors.New("document not found: record not found"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "document belongs to another case",
			req:  &dto.EnqueueJobRequest{CaseID: 1, DocumentID: 12},
			setup: func(m *serviceMocks) {
				other := &models.Document{ID: 12, CaseID: 99}
				m.cases.On("Get", mock.Anything, uint(1)).Return(caseRow, nil)
				m.docs.On("Get", mock.Anything, uint(12)).Return(other, nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate job for the document",
			req:  &dto.EnqueueJobRequest{CaseID: 1, DocumentID: 10},
			setup: func(m *serviceMocks) {
				m.cases.On("Get", mock.Anything, uint(1)).Return(caseRow, nil)
				m.docs.On("Get", mock.Anything, uint(10)).Return(docRow, nil)
				m.jobs.On("Create", mock.Anything, mock.Anything).
					Return(errors.New("create job: UNIQUE constraint failed: jobs.case_id, jobs.document_id"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "dispatch failure surfaces after the row exists",
			req:  &dto.EnqueueJobRequest{CaseID: 1, DocumentID: 10},
			setup: func(m *serviceMocks) {
				m.cases.On("Get", mock.Anything, uint(1)).Return(caseRow, nil)
				m.docs.On("Get", mock.Anything, uint(10)).Return(docRow, nil)
				m.jobs.On("Create", mock.Anything, mock.Anything).Return(nil)
				m.jobs.On("CountByCase", mock.Anything, uint(1)).
					Return(models.JobCounts{Queued: 1}, nil)
				m.cases.On("UpdateLifecycleStatus", mock.Anything, uint(1), models.CaseStatusProcessing).
					Return(nil)
				m.dispatcher.On("Dispatch", mock.Anything, mock.Anything).
					Return(errors.New("broker unavailable"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newServiceForTest(3)
			tt.setup(m)

			j, err := svc.Enqueue(context.Background(), tt.req)

			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, apiStatus(t, err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, j)
			assert.Equal(t, models.JobStatusQueued, j.Status)
			m.jobs.AssertExpectations(t)
			m.dispatcher.AssertExpectations(t)
		})
	}
}

func TestService_CreateCase(t *testing.T) {
	svc, m := newServiceForTest(2)
	m.cases.On("Create", mock.Anything, mock.Anything).Return(nil)

	c, err := svc.CreateCase(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)
	m.cases.AssertExpectations(t)
}

func TestService_AddDocument(t *testing.T) {
	t.Run("attaches the document to an existing case", func(t *testing.T) {
		svc, m := newServiceForTest(2)
		m.cases.On("Get", mock.Anything, uint(5)).
			Return(&models.Case{ID: 5}, nil)
		m.docs.On("Create", mock.Anything, mock.MatchedBy(func(d *models.Document) bool {
			return d.CaseID == 5 && d.Filename == "id-card.png"
		})).Return(nil)

		doc, err := svc.AddDocument(context.Background(), 5, &dto.CreateDocumentRequest{
			Filename:   "id-card.png",
			StorageKey: "cases/5/id-card.png",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(5), doc.CaseID)
	})

	t.Run("unknown case", func(t *testing.T) {
		svc, m := newServiceForTest(2)
		m.cases.On("Get", mock.Anything, uint(6)).
			Return(nil, errors.New("case not found: record not found"))

		_, err := svc.AddDocument(context.Background(), 6, &dto.CreateDocumentRequest{
			Filename:   "a.pdf",
			StorageKey: "cases/6/a.pdf",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
	})
}

func TestService_GetJob(t *testing.T) {
	t.Run("maps the row to the response", func(t *testing.T) {
		svc, m := newServiceForTest(2)
		m.jobs.On("Get", mock.Anything, uint(3)).Return(&models.Job{
			ID: 3, CaseID: 1, DocumentID: 10,
			Status: models.JobStatusCompleted, Attempts: 1, MaxAttempts: 2,
		}, nil)

		resp, err := svc.GetJob(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint(3), resp.ID)
		assert.Equal(t, models.JobStatusCompleted, resp.Status)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newServiceForTest(2)
		m.jobs.On("Get", mock.Anything, uint(4)).
			Return(nil, errors.New("job not found: record not found"))

		_, err := svc.GetJob(context.Background(), 4)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
	})

	t.Run("canceled context", func(t *testing.T) {
		svc, m := newServiceForTest(2)
		m.jobs.On("Get", mock.Anything, uint(5)).
			Return(nil, context.Canceled)

		_, err := svc.GetJob(context.Background(), 5)
		require.Error(t, err)
		assert.Equal(t, http.StatusRequestTimeout, apiStatus(t, err))
	})
}

func TestService_GetCaseStatus(t *testing.T) {
	svc, m := newServiceForTest(2)
	m.cases.On("Get", mock.Anything, uint(1)).Return(&models.Case{
		ID: 1, Status: models.CaseStatusProcessing,
	}, nil)
	m.jobs.On("CountByCase", mock.Anything, uint(1)).
		Return(models.JobCounts{Queued: 2, Completed: 1}, nil)

	resp, err := svc.GetCaseStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusProcessing, resp.Status)
	assert.Equal(t, int64(2), resp.JobCounts.Queued)
	assert.Equal(t, int64(1), resp.JobCounts.Completed)
}
