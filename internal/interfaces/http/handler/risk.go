package handler

import (
	"github.com/gin-gonic/gin"
	riskapp "github.com/halmarket/backend/internal/application/risk"
	"github.com/shopspring/decimal"
)

// RiskHandler handles advisory risk evaluation endpoints
type RiskHandler struct {
	BaseHandler
	risk *riskapp.RiskService
}

// NewRiskHandler creates a new RiskHandler
func NewRiskHandler(risk *riskapp.RiskService) *RiskHandler {
	return &RiskHandler{risk: risk}
}

// Evaluate reports whether a candidate amount would push the party past
// its risk limit. Advisory only; nothing is blocked.
// GET /api/v1/parties/:id/risk?amount=5000
func (h *RiskHandler) Evaluate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid party ID")
		return
	}

	amount := decimal.Zero
	if raw := c.Query("amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "invalid amount")
			return
		}
		amount = parsed
	}

	assessment, err := h.risk.Evaluate(c.Request.Context(), riskapp.EvaluationRequest{
		PartyID: id,
		Amount:  amount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assessment)
}
