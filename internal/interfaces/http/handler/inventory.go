package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/halmarket/backend/internal/application/inventory"
)

// InventoryHandler handles delivery intake and stock API endpoints
type InventoryHandler struct {
	BaseHandler
	deliveries *inventoryapp.DeliveryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(deliveries *inventoryapp.DeliveryService) *InventoryHandler {
	return &InventoryHandler{deliveries: deliveries}
}

// RecordDelivery registers a producer delivery arriving at the gate
// POST /api/v1/deliveries
func (h *InventoryHandler) RecordDelivery(c *gin.Context) {
	var req inventoryapp.RecordDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	delivery, err := h.deliveries.RecordDelivery(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, delivery)
}

// GetDelivery lists the batch lines of one delivery
// GET /api/v1/deliveries/:id
func (h *InventoryHandler) GetDelivery(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid delivery ID")
		return
	}

	lines, err := h.deliveries.ListByDelivery(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// ListStock lists batch lines, optionally restricted to lines with stock
// GET /api/v1/stock
func (h *InventoryHandler) ListStock(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	filters := map[string]any{}
	if productID := c.Query("product_id"); productID != "" {
		id, err := uuid.Parse(productID)
		if err != nil {
			h.BadRequest(c, "invalid product ID")
			return
		}
		filters["product_id"] = id
	}
	if agentID := c.Query("agent_id"); agentID != "" {
		id, err := uuid.Parse(agentID)
		if err != nil {
			h.BadRequest(c, "invalid agent ID")
			return
		}
		filters["agent_id"] = id
	}
	if c.Query("has_stock") == "true" {
		filters["has_stock"] = true
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	lines, err := h.deliveries.ListStock(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}
