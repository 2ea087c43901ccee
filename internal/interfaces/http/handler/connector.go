package handler

import (
	"context"

	app "github.com/binovo/connector-prestashop/internal/application/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConnectorService is what the connector handler needs from the
// application layer
type ConnectorService interface {
	ListBackends(ctx context.Context) ([]connector.Backend, error)
	GetBackend(ctx context.Context, id uuid.UUID) (*connector.Backend, error)
	CreateBackend(ctx context.Context, in app.CreateBackendInput) (*connector.Backend, error)
	EnqueueImport(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, externalID int64, force bool) (*connector.Job, bool, error)
	EnqueueBatchImport(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, filters connector.Filters) (*connector.Job, bool, error)
	ImportBatch(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, filters connector.Filters) (*app.BatchResult, error)
	EnqueueExport(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, internalID uuid.UUID) (*connector.Job, bool, error)
	GetBinding(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, externalID int64) (*connector.Binding, error)
}

// ConnectorHandler exposes backends, sync triggers and bindings
type ConnectorHandler struct {
	BaseHandler
	service ConnectorService
}

// NewConnectorHandler creates the handler
func NewConnectorHandler(service ConnectorService) *ConnectorHandler {
	return &ConnectorHandler{service: service}
}

// ListBackends handles GET /backends
func (h *ConnectorHandler) ListBackends(c *gin.Context) {
	backends, err := h.service.ListBackends(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]dto.BackendResponse, 0, len(backends))
	for i := range backends {
		out = append(out, dto.NewBackendResponse(&backends[i]))
	}
	h.Success(c, out)
}

// GetBackend handles GET /backends/:id
func (h *ConnectorHandler) GetBackend(c *gin.Context) {
	id, ok := h.backendID(c)
	if !ok {
		return
	}
	backend, err := h.service.GetBackend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewBackendResponse(backend))
}

// CreateBackend handles POST /backends
func (h *ConnectorHandler) CreateBackend(c *gin.Context) {
	var req dto.CreateBackendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	backend, err := h.service.CreateBackend(c.Request.Context(), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewBackendResponse(backend))
}

// EnqueueImport handles POST /backends/:id/imports
func (h *ConnectorHandler) EnqueueImport(c *gin.Context) {
	id, ok := h.backendID(c)
	if !ok {
		return
	}
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	job, accepted, err := h.service.EnqueueImport(c.Request.Context(), id, connector.EntityType(req.Entity), req.ExternalID, req.Force)
	h.respondJob(c, job, accepted, err)
}

// ImportBatch handles POST /backends/:id/batches
func (h *ConnectorHandler) ImportBatch(c *gin.Context) {
	id, ok := h.backendID(c)
	if !ok {
		return
	}
	var req dto.BatchImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	entity := connector.EntityType(req.Entity)
	filters := connector.Filters(req.Filters)

	if req.Direct {
		result, err := h.service.ImportBatch(c.Request.Context(), id, entity, filters)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
		return
	}
	job, accepted, err := h.service.EnqueueBatchImport(c.Request.Context(), id, entity, filters)
	h.respondJob(c, job, accepted, err)
}

// EnqueueExport handles POST /backends/:id/exports
func (h *ConnectorHandler) EnqueueExport(c *gin.Context) {
	id, ok := h.backendID(c)
	if !ok {
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	job, accepted, err := h.service.EnqueueExport(c.Request.Context(), id, connector.EntityType(req.Entity), uuid.MustParse(req.InternalID))
	h.respondJob(c, job, accepted, err)
}

// GetBinding handles GET /backends/:id/bindings/:entity/:external_id
func (h *ConnectorHandler) GetBinding(c *gin.Context) {
	var uri dto.BindingURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	binding, err := h.service.GetBinding(c.Request.Context(), uuid.MustParse(uri.ID), connector.EntityType(uri.Entity), uri.ExternalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewBindingResponse(binding))
}

func (h *ConnectorHandler) backendID(c *gin.Context) (uuid.UUID, bool) {
	var uri dto.BackendURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, false
	}
	return uuid.MustParse(uri.ID), true
}

func (h *ConnectorHandler) respondJob(c *gin.Context, job *connector.Job, accepted bool, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, dto.JobResponse{JobID: job.ID, Name: string(job.Name), Accepted: accepted})
}
