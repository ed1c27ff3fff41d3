package handler

import (
	"github.com/gin-gonic/gin"
	depositapp "github.com/halmarket/backend/internal/application/deposit"
)

// DepositHandler handles crate deposit API endpoints
type DepositHandler struct {
	BaseHandler
	deposits *depositapp.DepositService
}

// NewDepositHandler creates a new DepositHandler
func NewDepositHandler(deposits *depositapp.DepositService) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

// Pledge lends crates to a party against a deposit fee
// POST /api/v1/deposits/pledge
func (h *DepositHandler) Pledge(c *gin.Context) {
	var req depositapp.PledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	ticket, err := h.deposits.Pledge(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// Return takes crates back and releases their deposit value
// POST /api/v1/deposits/return
func (h *DepositHandler) Return(c *gin.Context) {
	var req depositapp.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	ticket, err := h.deposits.Return(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}
