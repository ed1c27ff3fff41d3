package handler

import (
	"github.com/gin-gonic/gin"
	settlementapp "github.com/halmarket/backend/internal/application/settlement"
)

// SettlementHandler handles sale document API endpoints
type SettlementHandler struct {
	BaseHandler
	documents *settlementapp.DocumentService
	finalizer *settlementapp.FinalizeService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(documents *settlementapp.DocumentService, finalizer *settlementapp.FinalizeService) *SettlementHandler {
	return &SettlementHandler{
		documents: documents,
		finalizer: finalizer,
	}
}

// CancelDocumentRequest is the body for cancelling a draft document
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CreateDraft creates a new draft sale document
// POST /api/v1/documents
func (h *SettlementHandler) CreateDraft(c *gin.Context) {
	var req settlementapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	doc, err := h.documents.CreateDraft(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Get retrieves one document
// GET /api/v1/documents/:id
func (h *SettlementHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid document ID")
		return
	}

	doc, err := h.documents.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// List retrieves documents with pagination
// GET /api/v1/documents
func (h *SettlementHandler) List(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "invalid list parameters")
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]any{"status": status}
	}

	docs, total, err := h.documents.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, docs, total, page, pageSize)
}

// AddLine appends a line to a draft document
// POST /api/v1/documents/:id/lines
func (h *SettlementHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid document ID")
		return
	}
	var req settlementapp.CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	doc, err := h.documents.AddLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Finalize confirms a draft document: allocates stock FIFO, applies
// deductions and posts the ledger entries
// POST /api/v1/documents/:id/finalize
func (h *SettlementHandler) Finalize(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid document ID")
		return
	}

	doc, err := h.finalizer.Finalize(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Cancel cancels a draft document
// POST /api/v1/documents/:id/cancel
func (h *SettlementHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid document ID")
		return
	}
	var req CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	if err := h.documents.Cancel(c.Request.Context(), id, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
