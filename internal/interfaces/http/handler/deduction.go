package handler

import (
	"github.com/gin-gonic/gin"
	deductionapp "github.com/halmarket/backend/internal/application/deduction"
)

// DeductionHandler handles deduction definition endpoints
type DeductionHandler struct {
	BaseHandler
	definitions *deductionapp.DefinitionService
}

// NewDeductionHandler creates a new DeductionHandler
func NewDeductionHandler(definitions *deductionapp.DefinitionService) *DeductionHandler {
	return &DeductionHandler{definitions: definitions}
}

// Create registers a new deduction definition
// POST /api/v1/deductions
func (h *DeductionHandler) Create(c *gin.Context) {
	var req deductionapp.CreateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	def, err := h.definitions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, def)
}

// List retrieves deduction definitions
// GET /api/v1/deductions?active=true
func (h *DeductionHandler) List(c *gin.Context) {
	defs, err := h.definitions.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, defs)
}

// Deactivate disables a definition for new documents
// POST /api/v1/deductions/:id/deactivate
func (h *DeductionHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid definition ID")
		return
	}

	def, err := h.definitions.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, def)
}

// Reactivate re-enables a deactivated definition
// POST /api/v1/deductions/:id/reactivate
func (h *DeductionHandler) Reactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid definition ID")
		return
	}

	def, err := h.definitions.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, def)
}
