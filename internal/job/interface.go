package job

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/caseflow/caseflow/internal/dto"
	"github.com/caseflow/caseflow/internal/models"
)

// JobRepoInterface defines the contract for job store operations, including
// the claim protocol.
type JobRepoInterface interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id uint) (*models.Job, error)
	ListByCase(ctx context.Context, caseID uint) ([]models.Job, error)
	ClaimNext(ctx context.Context) (*models.ClaimedJob, error)
	ClaimByID(ctx context.Context, id uint) (*models.ClaimedJob, error)
	MarkCompleted(ctx context.Context, id uint, result datatypes.JSON) error
	MarkFailed(ctx context.Context, id uint, msg string) error
	Requeue(ctx context.Context, id uint, msg string) error
	CountByCase(ctx context.Context, caseID uint) (models.JobCounts, error)
}

// CaseRepoInterface defines the contract for case lifecycle persistence.
type CaseRepoInterface interface {
	Create(ctx context.Context, c *models.Case) error
	Get(ctx context.Context, id uint) (*models.Case, error)
	UpdateLifecycleStatus(ctx context.Context, id uint, status models.CaseStatus) error
	MarkFailed(ctx context.Context, id uint, reason string) error
}

// DocumentRepoInterface defines the contract for document metadata access.
type DocumentRepoInterface interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id uint) (*models.Document, error)
	ListByCase(ctx context.Context, caseID uint) ([]models.Document, error)
}

// Dispatcher is the backend seam the enqueue path talks to: the poller
// backend ignores the call (pollers find the row), the broker backend
// publishes the job id.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID uint) error
}

// PipelineRunner runs the downstream pipeline for a drained case.
type PipelineRunner interface {
	Run(ctx context.Context, caseID uint) error
}

// PipelineStarter begins a background pipeline run unless one is already in
// flight for the case, reporting whether this call started it.
type PipelineStarter interface {
	Start(ctx context.Context, caseID uint) bool
}

// ServiceInterface defines the contract for orchestrator business logic.
type ServiceInterface interface {
	CreateCase(ctx context.Context) (*models.Case, error)
	AddDocument(ctx context.Context, caseID uint, req *dto.CreateDocumentRequest) (*models.Document, error)
	Enqueue(ctx context.Context, req *dto.EnqueueJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, id uint) (*dto.JobResponse, error)
	GetCaseStatus(ctx context.Context, id uint) (*dto.CaseStatusResponse, error)
}

// HandlerInterface defines the contract for the HTTP handlers.
type HandlerInterface interface {
	CreateCase(c *gin.Context)
	AddDocument(c *gin.Context)
	Enqueue(c *gin.Context)
	GetJob(c *gin.Context)
	GetCase(c *gin.Context)
	RunPipeline(c *gin.Context)
}
