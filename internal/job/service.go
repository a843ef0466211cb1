package job

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/caseflow/caseflow/common"
	"github.com/caseflow/caseflow/internal/dto"
	"github.com/caseflow/caseflow/internal/models"
)

// Service implements the enqueue and status-query surfaces. It never needs
// to know which execution backend is active; dispatching goes through the
// Dispatcher seam.
type Service struct {
	jobs        JobRepoInterface
	cases       CaseRepoInterface
	docs        DocumentRepoInterface
	dispatcher  Dispatcher
	syncer      *Syncer
	maxAttempts int
}

func NewService(
	jobs JobRepoInterface,
	cases CaseRepoInterface,
	docs DocumentRepoInterface,
	dispatcher Dispatcher,
	syncer *Syncer,
	maxAttempts int,
) *Service {
	if maxAttempts < 1 {
		maxAttempts = models.DefaultMaxAttempts
	}
	return &Service{
		jobs:        jobs,
		cases:       cases,
		docs:        docs,
		dispatcher:  dispatcher,
		syncer:      syncer,
		maxAttempts: maxAttempts,
	}
}

var _ ServiceInterface = (*Service)(nil)

// CreateCase opens a new empty case.
func (s *Service) CreateCase(ctx context.Context) (*models.Case, error) {
	c := &models.Case{}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to create case")
	}
	return c, nil
}

// AddDocument registers document metadata under a case.
func (s *Service) AddDocument(ctx context.Context, caseID uint, req *dto.CreateDocumentRequest) (*models.Document, error) {
	if _, err := s.cases.Get(ctx, caseID); err != nil {
		return nil, caseLookupError(err)
	}

	doc := &models.Document{
		CaseID:     caseID,
		Filename:   req.Filename,
		StorageKey: req.StorageKey,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to create document")
	}
	return doc, nil
}

// Enqueue accepts a document for recognition: it creates the queued job row
// and hands the job id to the active backend. The unique (case, document)
// constraint keeps this to one job per document.
func (s *Service) Enqueue(ctx context.Context, req *dto.EnqueueJobRequest) (*models.Job, error) {
	if _, err := s.cases.Get(ctx, req.CaseID); err != nil {
		return nil, caseLookupError(err)
	}

	doc, err := s.docs.Get(ctx, req.DocumentID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, common.Errf(http.StatusNotFound, "document not found")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to load document")
	}
	if doc.CaseID != req.CaseID {
		return nil, common.Errf(http.StatusBadRequest, "document does not belong to case")
	}

	j := &models.Job{
		CaseID:      req.CaseID,
		DocumentID:  req.DocumentID,
		Status:      models.JobStatusQueued,
		MaxAttempts: s.maxAttempts,
	}
	if err := s.jobs.Create(ctx, j); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, common.Errf(http.StatusConflict, "a job already exists for this document")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to enqueue job")
	}

	if _, err := s.syncer.Sync(ctx, req.CaseID); err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to update case status")
	}

	if err := s.dispatcher.Dispatch(ctx, j.ID); err != nil {
		// The row exists; a poller-mode restart or a broker retry can still
		// pick it up, so surface the failure without rolling back.
		return nil, common.Errf(http.StatusInternalServerError, "failed to dispatch job")
	}

	return j, nil
}

// GetJob retrieves a job by ID.
func (s *Service) GetJob(ctx context.Context, id uint) (*dto.JobResponse, error) {
	j, err := s.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
		}
		if strings.Contains(err.Error(), "not found") {
			return nil, common.Errf(http.StatusNotFound, "job not found")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to get job")
	}

	return &dto.JobResponse{
		ID:           j.ID,
		CaseID:       j.CaseID,
		DocumentID:   j.DocumentID,
		Status:       j.Status,
		Attempts:     j.Attempts,
		MaxAttempts:  j.MaxAttempts,
		ErrorMessage: j.ErrorMessage,
		Result:       json.RawMessage(j.Result),
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}, nil
}

// GetCaseStatus returns a case with its job counts.
func (s *Service) GetCaseStatus(ctx context.Context, id uint) (*dto.CaseStatusResponse, error) {
	c, err := s.cases.Get(ctx, id)
	if err != nil {
		return nil, caseLookupError(err)
	}

	counts, err := s.jobs.CountByCase(ctx, id)
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to count jobs")
	}

	return &dto.CaseStatusResponse{
		ID:            c.ID,
		PublicID:      c.PublicID,
		Status:        c.Status,
		FailureReason: c.FailureReason,
		JobCounts:     counts,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}, nil
}

func caseLookupError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	}
	if strings.Contains(err.Error(), "not found") {
		return common.Errf(http.StatusNotFound, "case not found")
	}
	return common.Errf(http.StatusInternalServerError, "failed to load case")
}
