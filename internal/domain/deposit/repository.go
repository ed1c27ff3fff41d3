package deposit

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CrateHoldingRepository defines persistence for crate holdings
type CrateHoldingRepository interface {
	FindByPartyAndType(ctx context.Context, partyID uuid.UUID, containerType string) (*CrateHolding, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]CrateHolding, error)
	SumOutstandingByParty(ctx context.Context, partyID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, holding *CrateHolding) error
}

// DepositTicketRepository defines persistence for the append-only
// deposit ticket trail
type DepositTicketRepository interface {
	Create(ctx context.Context, ticket *DepositTicket) error
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]DepositTicket, error)
}
