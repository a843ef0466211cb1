package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/caseflow/caseflow/internal/job"
	"github.com/caseflow/caseflow/internal/mocks"
	"github.com/caseflow/caseflow/internal/models"
	"github.com/caseflow/caseflow/internal/recognition"
)

type recordingTrigger struct {
	mu      sync.Mutex
	caseIDs []uint
}

func (r *recordingTrigger) Evaluate(_ context.Context, caseID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caseIDs = append(r.caseIDs, caseID)
}

func (r *recordingTrigger) calls() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.caseIDs...)
}

type outcomeMocks struct {
	jobs    *mocks.JobRepoMock
	cases   *mocks.CaseRepoMock
	docs    *mocks.DocumentRepoMock
	rec     *mocks.RecognizerMock
	trigger *recordingTrigger
}

func newDepsForTest() (Deps, *outcomeMocks) {
	m := &outcomeMocks{
		jobs:    new(mocks.JobRepoMock),
		cases:   new(mocks.CaseRepoMock),
		docs:    new(mocks.DocumentRepoMock),
		rec:     new(mocks.RecognizerMock),
		trigger: &recordingTrigger{},
	}
	return Deps{
		Jobs:       m.jobs,
		Docs:       m.docs,
		Recognizer: m.rec,
		Syncer:     job.NewSyncer(m.jobs, m.cases),
		Trigger:    m.trigger,
	}, m
}

func expectSync(m *outcomeMocks, caseID uint, counts models.JobCounts, status models.CaseStatus) {
	m.jobs.On("CountByCase", mock.Anything, caseID).Return(counts, nil)
	m.cases.On("UpdateLifecycleStatus", mock.Anything, caseID, status).Return(nil)
}

func TestHandleClaimed_Success(t *testing.T) {
	deps, m := newDepsForTest()
	claimed := &models.ClaimedJob{JobID: 1, CaseID: 2, DocumentID: 3, Attempts: 1, MaxAttempts: 2}

	m.docs.On("Get", mock.Anything, uint(3)).
		Return(&models.Document{ID: 3, CaseID: 2, StorageKey: "cases/scan.pdf"}, nil)
	m.rec.On("Process", mock.Anything, uint(3), "cases/scan.pdf").
		Return(recognition.Result{DocumentType: "pdf_document", Confidence: 0.93}, nil)
	m.jobs.On("MarkCompleted", mock.Anything, uint(1), mock.Anything).Return(nil)
	expectSync(m, 2, models.JobCounts{Completed: 1}, models.CaseStatusDocumentsClassified)

	status, err := HandleClaimed(context.Background(), deps, claimed)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, status)
	assert.Equal(t, []uint{2}, m.trigger.calls())
	m.jobs.AssertExpectations(t)
}

func TestHandleClaimed_DocumentMissing(t *testing.T) {
	deps, m := newDepsForTest()
	claimed := &models.ClaimedJob{JobID: 1, CaseID: 2, DocumentID: 3, Attempts: 1, MaxAttempts: 2}

	m.docs.On("Get", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)
	m.jobs.On("MarkFailed", mock.Anything, uint(1), mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil)
	expectSync(m, 2, models.JobCounts{Failed: 1}, models.CaseStatusFailed)

	status, err := HandleClaimed(context.Background(), deps, claimed)
	require.Error(t, err)
	assert.Equal(t, models.JobStatusFailed, status)
	// No retry for a missing document.
	m.jobs.AssertNotCalled(t, "Requeue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleClaimed_RecognizerNotFound(t *testing.T) {
	deps, m := newDepsForTest()
	claimed := &models.ClaimedJob{JobID: 1, CaseID: 2, DocumentID: 3, Attempts: 1, MaxAttempts: 5}

	m.docs.On("Get", mock.Anything, uint(3)).
		Return(&models.Document{ID: 3, CaseID: 2, StorageKey: "gone.pdf"}, nil)
	m.rec.On("Process", mock.Anything, uint(3), "gone.pdf").
		Return(recognition.Result{}, recognition.ErrNotFound)
	m.jobs.On("MarkFailed", mock.Anything, uint(1), mock.Anything).Return(nil)
	expectSync(m, 2, models.JobCounts{Failed: 1}, models.CaseStatusFailed)

	status, err := HandleClaimed(context.Background(), deps, claimed)
	require.ErrorIs(t, err, recognition.ErrNotFound)
	assert.Equal(t, models.JobStatusFailed, status)
	m.jobs.AssertNotCalled(t, "Requeue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleClaimed_TransientFailureRequeues(t *testing.T) {
	deps, m := newDepsForTest()
	claimed := &models.ClaimedJob{JobID: 1, CaseID: 2, DocumentID: 3, Attempts: 1, MaxAttempts: 2}

	procErr := errors.New("recognizer timeout")
	m.docs.On("Get", mock.Anything, uint(3)).
		Return(&models.Document{ID: 3, CaseID: 2, StorageKey: "slow.pdf"}, nil)
	m.rec.On("Process", mock.Anything, uint(3), "slow.pdf").
		Return(recognition.Result{}, procErr)
	m.jobs.On("Requeue", mock.Anything, uint(1), "recognizer timeout").Return(nil)
	expectSync(m, 2, models.JobCounts{Queued: 1}, models.CaseStatusProcessing)

	status, err := HandleClaimed(context.Background(), deps, claimed)
	require.ErrorIs(t, err, procErr)
	assert.Equal(t, models.JobStatusQueued, status)
	m.jobs.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleClaimed_ExhaustedAttemptsFail(t *testing.T) {
	deps, m := newDepsForTest()
	claimed := &models.ClaimedJob{JobID: 1, CaseID: 2, DocumentID: 3, Attempts: 2, MaxAttempts: 2}

	m.docs.On("Get", mock.Anything, uint(3)).
		Return(&models.Document{ID: 3, CaseID: 2, StorageKey: "bad.pdf"}, nil)
	m.rec.On("Process", mock.Anything, uint(3), "bad.pdf").
		Return(recognition.Result{}, errors.New("recognizer timeout"))
	m.jobs.On("MarkFailed", mock.Anything, uint(1), "recognizer timeout").Return(nil)
	expectSync(m, 2, models.JobCounts{Failed: 1}, models.CaseStatusFailed)

	status, err := HandleClaimed(context.Background(), deps, claimed)
	require.Error(t, err)
	assert.Equal(t, models.JobStatusFailed, status)
	m.jobs.AssertNotCalled(t, "Requeue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleClaimed_SyncErrorSurfaces(t *testing.T) {
	deps, m := newDepsForTest()
	claimed := &models.ClaimedJob{JobID: 1, CaseID: 2, DocumentID: 3, Attempts: 1, MaxAttempts: 2}

	m.docs.On("Get", mock.Anything, uint(3)).
		Return(&models.Document{ID: 3, CaseID: 2, StorageKey: "scan.pdf"}, nil)
	m.rec.On("Process", mock.Anything, uint(3), "scan.pdf").
		Return(recognition.Result{DocumentType: "pdf_document"}, nil)
	m.jobs.On("MarkCompleted", mock.Anything, uint(1), mock.Anything).Return(nil)
	m.jobs.On("CountByCase", mock.Anything, uint(2)).
		Return(models.JobCounts{}, errors.New("db down"))

	status, err := HandleClaimed(context.Background(), deps, claimed)
	require.Error(t, err)
	assert.Equal(t, models.JobStatusCompleted, status)
	// The trigger never fires on a failed sync.
	assert.Empty(t, m.trigger.calls())
}
