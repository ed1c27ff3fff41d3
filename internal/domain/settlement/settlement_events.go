package settlement

import (
	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeDocumentConfirmed = "settlement.document_confirmed"
)

// DocumentConfirmedEvent is raised when a sale document is finalized.
// The notification sync queue consumes it to enqueue the regulatory
// bildirim for the document.
type DocumentConfirmedEvent struct {
	shared.BaseDomainEvent
	DocumentNumber string          `json:"document_number"`
	Kind           DocumentKind    `json:"kind"`
	BuyerID        uuid.UUID       `json:"buyer_id"`
	ProducerID     uuid.UUID       `json:"producer_id"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// NewDocumentConfirmedEvent creates a new document confirmed event
func NewDocumentConfirmedEvent(doc *SaleDocument) *DocumentConfirmedEvent {
	return &DocumentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentConfirmed, "SaleDocument", doc.ID),
		DocumentNumber:  doc.Number,
		Kind:            doc.Kind,
		BuyerID:         doc.BuyerID,
		ProducerID:      doc.ProducerID,
		GrandTotal:      doc.GrandTotal,
	}
}
