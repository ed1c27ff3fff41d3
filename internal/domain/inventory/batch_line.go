package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchLine represents one product/container-type line of a producer
// delivery. Later sales consume it FIFO for traceability. Remaining
// quantities only ever decrease, and only through allocations.
type BatchLine struct {
	shared.BaseEntity
	DeliveryID          uuid.UUID
	ProductID           uuid.UUID
	ProductName         string // denormalized for error messages and documents
	AgentID             uuid.UUID
	ReceiptDate         time.Time
	Sequence            int64 `gorm:"autoIncrement;uniqueIndex"` // FIFO tiebreaker within a receipt date
	ContainerType       string
	GrossWeight         decimal.Decimal
	TareWeight          decimal.Decimal
	NetWeight           decimal.Decimal
	ContainerCount      int64
	UnitPrice           *decimal.Decimal
	RemainingWeight     decimal.Decimal
	RemainingContainers int64
}

// NewBatchLine creates a new batch line for a recorded delivery.
// Net weight is derived from gross minus tare when not supplied.
func NewBatchLine(
	deliveryID, productID, agentID uuid.UUID,
	productName string,
	receiptDate time.Time,
	containerType string,
	grossWeight, tareWeight decimal.Decimal,
	containerCount int64,
	unitPrice *decimal.Decimal,
) (*BatchLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewInvalidInputError("product", "product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewInvalidInputError("product name", "cannot be empty")
	}
	if grossWeight.IsNegative() || tareWeight.IsNegative() {
		return nil, shared.NewInvalidInputError("weight", "gross and tare weights cannot be negative")
	}
	if tareWeight.GreaterThan(grossWeight) {
		return nil, shared.NewInvalidInputError("tare weight", "cannot exceed gross weight")
	}
	if containerCount < 0 {
		return nil, shared.NewInvalidInputError("container count", "cannot be negative")
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return nil, shared.NewInvalidInputError("unit price", "cannot be negative")
	}

	net := grossWeight.Sub(tareWeight)
	return &BatchLine{
		BaseEntity:          shared.NewBaseEntity(),
		DeliveryID:          deliveryID,
		ProductID:           productID,
		ProductName:         productName,
		AgentID:             agentID,
		ReceiptDate:         receiptDate,
		ContainerType:       containerType,
		GrossWeight:         grossWeight,
		TareWeight:          tareWeight,
		NetWeight:           net,
		ContainerCount:      containerCount,
		UnitPrice:           unitPrice,
		RemainingWeight:     net,
		RemainingContainers: containerCount,
	}, nil
}

// HasStock returns true if the line still has unallocated weight
func (b *BatchLine) HasStock() bool {
	return b.RemainingWeight.GreaterThan(decimal.Zero)
}

// Exhausted returns true if the line has been fully consumed
func (b *BatchLine) Exhausted() bool {
	return b.RemainingWeight.IsZero()
}

// AllocatedWeight returns the net weight already drawn from this line
func (b *BatchLine) AllocatedWeight() decimal.Decimal {
	return b.NetWeight.Sub(b.RemainingWeight)
}

// take decrements the remaining quantities. Callers go through
// ApplyAllocation; the planned amount must never exceed the remainder.
func (b *BatchLine) take(weight decimal.Decimal, containers int64) error {
	if weight.GreaterThan(b.RemainingWeight) {
		return shared.NewDomainError(shared.ErrConcurrencyConflict.Code,
			"Batch line "+b.ID.String()+" no longer holds the planned quantity")
	}
	if containers > b.RemainingContainers {
		containers = b.RemainingContainers
	}
	b.RemainingWeight = b.RemainingWeight.Sub(weight)
	b.RemainingContainers -= containers
	if b.RemainingWeight.IsZero() {
		// an exhausted line keeps no stray containers behind
		b.RemainingContainers = 0
	}
	b.Touch()
	return nil
}
