package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
)

// BatchLineRepository defines persistence for incoming batch lines
type BatchLineRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BatchLine, error)
	// FindEligible returns lines with remaining stock for a product,
	// optionally restricted to a source agent, in FIFO order
	// (receipt date ascending, sequence ascending).
	FindEligible(ctx context.Context, productID uuid.UUID, agentID *uuid.UUID) ([]BatchLine, error)
	FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]BatchLine, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BatchLine, error)
	Save(ctx context.Context, line *BatchLine) error
	SaveAll(ctx context.Context, lines []*BatchLine) error
}

// AllocationRecordRepository defines persistence for the append-only
// allocation audit trail
type AllocationRecordRepository interface {
	Create(ctx context.Context, records []*AllocationRecord) error
	FindByBatchLine(ctx context.Context, batchLineID uuid.UUID) ([]AllocationRecord, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]AllocationRecord, error)
}
