package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/infrastructure/locking"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostingRequest is the command to record a cash collection or payment.
// PartyID comes from the URL path, not the request body.
type PostingRequest struct {
	PartyID     uuid.UUID       `json:"-"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// EntryResponse is one ledger entry in API responses
type EntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	PartyID      uuid.UUID       `json:"party_id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	SignedAmount decimal.Decimal `json:"signed_amount"`
	DocumentID   *uuid.UUID      `json:"document_id,omitempty"`
	Description  string          `json:"description"`
	PostedAt     time.Time       `json:"posted_at"`
}

// ToEntryResponse converts a ledger entry to its API representation
func ToEntryResponse(entry *partner.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		PartyID:      entry.PartyID,
		Kind:         entry.Kind.String(),
		Amount:       entry.Amount,
		SignedAmount: entry.SignedAmount(),
		DocumentID:   entry.DocumentID,
		Description:  entry.Description,
		PostedAt:     entry.PostedAt,
	}
}

// ReconciliationResponse reports whether a party's denormalized balance
// matches the replay sum of its ledger entries
type ReconciliationResponse struct {
	PartyID    uuid.UUID       `json:"party_id"`
	Balance    decimal.Decimal `json:"balance"`
	ReplaySum  decimal.Decimal `json:"replay_sum"`
	Consistent bool            `json:"consistent"`
}

// LedgerService posts manual collections and payments and reconciles
// denormalized balances against the append-only entry trail
type LedgerService struct {
	scope  TransactionScope
	locks  *locking.EntityLockManager
	logger *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope, locks *locking.EntityLockManager, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		scope:  scope,
		locks:  locks,
		logger: logger,
	}
}

// Collect records a cash collection from a party, raising its balance
func (s *LedgerService) Collect(ctx context.Context, req PostingRequest) (*EntryResponse, error) {
	return s.post(ctx, req, partner.EntryKindCollection)
}

// Pay records a cash payment to a party, lowering its balance
func (s *LedgerService) Pay(ctx context.Context, req PostingRequest) (*EntryResponse, error) {
	return s.post(ctx, req, partner.EntryKindPayment)
}

func (s *LedgerService) post(ctx context.Context, req PostingRequest, kind partner.EntryKind) (*EntryResponse, error) {
	release := s.locks.AcquireAll([]uuid.UUID{req.PartyID})
	defer release()

	var response EntryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.Accounts().FindByID(ctx, req.PartyID)
		if err != nil {
			return err
		}

		entry, err := partner.NewLedgerEntry(account.ID, kind, req.Amount, nil, req.Description)
		if err != nil {
			return err
		}
		if err := account.ApplyEntry(entry); err != nil {
			return err
		}

		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		if err := repos.Entries().Create(ctx, []*partner.LedgerEntry{entry}); err != nil {
			return err
		}

		response = ToEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger posting recorded",
		zap.String("party_id", req.PartyID.String()),
		zap.String("kind", kind.String()),
		zap.String("amount", req.Amount.String()),
	)
	return &response, nil
}

// Reconcile replays the party's entries and compares the sum against the
// denormalized balance
func (s *LedgerService) Reconcile(ctx context.Context, partyID uuid.UUID) (*ReconciliationResponse, error) {
	var response ReconciliationResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.Accounts().FindByID(ctx, partyID)
		if err != nil {
			return err
		}
		sum, err := repos.Entries().SumByParty(ctx, partyID)
		if err != nil {
			return err
		}
		response = ReconciliationResponse{
			PartyID:    partyID,
			Balance:    account.Balance,
			ReplaySum:  sum,
			Consistent: account.Balance.Equal(sum),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !response.Consistent {
		s.logger.Warn("balance drift detected",
			zap.String("party_id", partyID.String()),
			zap.String("balance", response.Balance.String()),
			zap.String("replay_sum", response.ReplaySum.String()),
		)
	}
	return &response, nil
}
