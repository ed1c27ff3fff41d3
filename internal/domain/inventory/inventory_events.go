package inventory

import (
	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeDeliveryReceived = "inventory.delivery_received"
	EventTypeStockAllocated   = "inventory.stock_allocated"
)

// DeliveryReceivedEvent is raised when a producer delivery is recorded
type DeliveryReceivedEvent struct {
	shared.BaseDomainEvent
	DeliveryID uuid.UUID       `json:"delivery_id"`
	AgentID    uuid.UUID       `json:"agent_id"`
	LineCount  int             `json:"line_count"`
	NetWeight  decimal.Decimal `json:"net_weight"`
}

// NewDeliveryReceivedEvent creates a new delivery received event
func NewDeliveryReceivedEvent(deliveryID, agentID uuid.UUID, lineCount int, netWeight decimal.Decimal) *DeliveryReceivedEvent {
	return &DeliveryReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryReceived, "BatchLine", deliveryID),
		DeliveryID:      deliveryID,
		AgentID:         agentID,
		LineCount:       lineCount,
		NetWeight:       netWeight,
	}
}

// StockAllocatedEvent is raised when a sale draws stock from batch lines
type StockAllocatedEvent struct {
	shared.BaseDomainEvent
	DocumentID  uuid.UUID       `json:"document_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	LinesDrawn  int             `json:"lines_drawn"`
}

// NewStockAllocatedEvent creates a new stock allocated event
func NewStockAllocatedEvent(documentID, productID uuid.UUID, totalWeight decimal.Decimal, linesDrawn int) *StockAllocatedEvent {
	return &StockAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAllocated, "SaleDocument", documentID),
		DocumentID:      documentID,
		ProductID:       productID,
		TotalWeight:     totalWeight,
		LinesDrawn:      linesDrawn,
	}
}
