package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger posting. Debits and collections raise the
// party's balance (the party owes us more); credits and payments lower it.
type EntryKind string

const (
	EntryKindDebit      EntryKind = "DEBIT"
	EntryKindCredit     EntryKind = "CREDIT"
	EntryKindCollection EntryKind = "COLLECTION"
	EntryKindPayment    EntryKind = "PAYMENT"
)

// IsValid checks if the kind is a valid EntryKind
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindDebit, EntryKindCredit, EntryKindCollection, EntryKindPayment:
		return true
	}
	return false
}

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	return string(k)
}

// Sign returns the balance effect direction of the kind: +1 or -1
func (k EntryKind) Sign() int {
	switch k {
	case EntryKindDebit, EntryKindCollection:
		return 1
	default:
		return -1
	}
}

// LedgerEntry is one immutable posting on a party's ledger. The Amount is
// always positive; direction comes from the Kind. Entries are append-only:
// corrections are posted as offsetting entries, never edits.
type LedgerEntry struct {
	shared.BaseEntity
	PartyID     uuid.UUID `gorm:"index"`
	Kind        EntryKind
	Amount      decimal.Decimal
	DocumentID  *uuid.UUID // originating sale document, nil for manual postings
	Description string
	PostedAt    time.Time
}

// NewLedgerEntry creates a new ledger posting
func NewLedgerEntry(partyID uuid.UUID, kind EntryKind, amount decimal.Decimal, documentID *uuid.UUID, description string) (*LedgerEntry, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewInvalidInputError("party", "cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewInvalidInputError("entry kind", "unknown kind "+string(kind))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidInputError("entry amount", "must be positive")
	}

	return &LedgerEntry{
		BaseEntity:  shared.NewBaseEntity(),
		PartyID:     partyID,
		Kind:        kind,
		Amount:      amount,
		DocumentID:  documentID,
		Description: description,
		PostedAt:    time.Now(),
	}, nil
}

// SignedAmount returns the entry's effect on the party balance
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind.Sign() < 0 {
		return e.Amount.Neg()
	}
	return e.Amount
}
