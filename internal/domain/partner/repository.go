package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartyAccountRepository defines persistence for party accounts
type PartyAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PartyAccount, error)
	FindByCode(ctx context.Context, code string) (*PartyAccount, error)
	FindByType(ctx context.Context, partyType PartyType, filter shared.Filter) (*shared.Paginated[PartyAccount], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[PartyAccount], error)
	Save(ctx context.Context, account *PartyAccount) error
}

// LedgerEntryRepository defines persistence for the append-only ledger.
// Entries are only ever created; SumByParty replays them so the
// denormalized account balance can be reconciled.
type LedgerEntryRepository interface {
	Create(ctx context.Context, entries []*LedgerEntry) error
	FindByParty(ctx context.Context, partyID uuid.UUID, filter shared.Filter) (*shared.Paginated[LedgerEntry], error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]LedgerEntry, error)
	SumByParty(ctx context.Context, partyID uuid.UUID) (decimal.Decimal, error)
}
