package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
)

// SaleDocumentRepository defines persistence for sale documents
type SaleDocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SaleDocument, error)
	FindByNumber(ctx context.Context, number string) (*SaleDocument, error)
	FindByStatus(ctx context.Context, status DocumentStatus, filter shared.Filter) (*shared.Paginated[SaleDocument], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[SaleDocument], error)
	Save(ctx context.Context, doc *SaleDocument) error
}
