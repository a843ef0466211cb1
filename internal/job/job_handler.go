package job

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caseflow/caseflow/common"
	"github.com/caseflow/caseflow/internal/dto"
	"github.com/caseflow/caseflow/middleware"
)

type Handler struct {
	service  ServiceInterface
	pipeline PipelineStarter
}

func NewHandler(s ServiceInterface, pipeline PipelineStarter) *Handler {
	return &Handler{service: s, pipeline: pipeline}
}

var _ HandlerInterface = (*Handler)(nil)

// CreateCase handles POST /cases and returns the new case with its public id.
func (h *Handler) CreateCase(c *gin.Context) {
	created, err := h.service.CreateCase(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AddDocument handles POST /cases/:id/documents.
func (h *Handler) AddDocument(c *gin.Context) {
	caseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if !middleware.Bind(c, &req) {
		return
	}

	doc, err := h.service.AddDocument(c.Request.Context(), caseID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Enqueue handles POST /jobs: it accepts a document for recognition and
// returns the created job row.
func (h *Handler) Enqueue(c *gin.Context) {
	var req dto.EnqueueJobRequest
	if !middleware.Bind(c, &req) {
		return
	}

	j, err := h.service.Enqueue(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, j)
}

// GetJob handles GET /jobs/:id.
func (h *Handler) GetJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCase handles GET /cases/:id, returning the lifecycle status together
// with the per-status job counts.
func (h *Handler) GetCase(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetCaseStatus(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RunPipeline handles POST /cases/:id/pipeline. The run happens in the
// background; drain timeouts and stage failures land on the case status.
// Manual requests share the drain trigger's inflight guard, so a request
// racing a worker-observed drain cannot start a second run.
func (h *Handler) RunPipeline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.service.GetCaseStatus(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	status := "pipeline_started"
	if !h.pipeline.Start(context.Background(), id) {
		status = "pipeline_already_running"
	}

	c.JSON(http.StatusAccepted, gin.H{"case_id": id, "status": status})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return 0, false
	}
	return uint(id), true
}
