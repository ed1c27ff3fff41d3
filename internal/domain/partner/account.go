package partner

import (
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartyType classifies a counter-party of the market
type PartyType string

const (
	PartyTypeProducer PartyType = "PRODUCER"
	PartyTypeAgent    PartyType = "AGENT"
	PartyTypeBuyer    PartyType = "BUYER"
	PartyTypeCarrier  PartyType = "CARRIER"
	PartyTypeBranch   PartyType = "BRANCH"
)

// IsValid checks if the type is a valid PartyType
func (t PartyType) IsValid() bool {
	switch t {
	case PartyTypeProducer, PartyTypeAgent, PartyTypeBuyer, PartyTypeCarrier, PartyTypeBranch:
		return true
	}
	return false
}

// String returns the string representation of PartyType
func (t PartyType) String() string {
	return string(t)
}

// PartyAccount is one counter-party with its running ledger balance.
// Balance sign convention is fixed system-wide: positive means the party
// owes us, negative means we owe the party. The stored balance is a
// denormalized sum of the party's ledger entries and must stay
// reconcilable against them; ApplyEntry is its only mutator.
type PartyAccount struct {
	shared.BaseAggregateRoot
	Code              string `gorm:"uniqueIndex"`
	Name              string
	Type              PartyType
	Balance           decimal.Decimal
	RiskLimit         decimal.Decimal // zero means no limit configured
	CrateHoldingLimit int64           // zero means no limit configured
	CurrentCrateCount int64
}

// NewPartyAccount creates a new party account with a zero balance
func NewPartyAccount(code, name string, partyType PartyType) (*PartyAccount, error) {
	if code == "" {
		return nil, shared.NewInvalidInputError("party code", "cannot be empty")
	}
	if name == "" {
		return nil, shared.NewInvalidInputError("party name", "cannot be empty")
	}
	if !partyType.IsValid() {
		return nil, shared.NewInvalidInputError("party type", "unknown type "+string(partyType))
	}

	return &PartyAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Type:              partyType,
		Balance:           decimal.Zero,
		RiskLimit:         decimal.Zero,
	}, nil
}

// SetRiskLimit sets the advisory risk limit
func (a *PartyAccount) SetRiskLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewInvalidInputError("risk limit", "cannot be negative")
	}
	a.RiskLimit = limit
	a.Touch()
	return nil
}

// SetCrateHoldingLimit sets the maximum number of crates the party may hold
func (a *PartyAccount) SetCrateHoldingLimit(limit int64) error {
	if limit < 0 {
		return shared.NewInvalidInputError("crate holding limit", "cannot be negative")
	}
	a.CrateHoldingLimit = limit
	a.Touch()
	return nil
}

// ApplyEntry moves the balance by the entry's signed amount. The entry must
// belong to this party; callers persist the entry and the account together.
func (a *PartyAccount) ApplyEntry(entry *LedgerEntry) error {
	if entry == nil {
		return shared.NewInvalidInputError("ledger entry", "cannot be nil")
	}
	if entry.PartyID != a.ID {
		return shared.NewInvalidInputError("ledger entry", "belongs to a different party")
	}

	a.Balance = a.Balance.Add(entry.SignedAmount())
	a.Touch()
	return nil
}

// CanHold reports whether the party may take count more crates without
// breaching its holding limit. A zero limit never blocks.
func (a *PartyAccount) CanHold(count int64) bool {
	if a.CrateHoldingLimit == 0 {
		return true
	}
	return a.CurrentCrateCount+count <= a.CrateHoldingLimit
}

// AddCrates increments the party's crate holding count. The deposit
// tracker is the only caller; it enforces the holding limit first.
func (a *PartyAccount) AddCrates(count int64) error {
	if count <= 0 {
		return shared.NewInvalidInputError("crate count", "must be positive")
	}
	if !a.CanHold(count) {
		return shared.NewDepositLimitExceededError(a.Name, "", a.CurrentCrateCount, count, a.CrateHoldingLimit)
	}
	a.CurrentCrateCount += count
	a.Touch()
	return nil
}

// RemoveCrates decrements the party's crate holding count
func (a *PartyAccount) RemoveCrates(count int64) error {
	if count <= 0 {
		return shared.NewInvalidInputError("crate count", "must be positive")
	}
	if count > a.CurrentCrateCount {
		return shared.NewOverReturnError(a.Name, "", a.CurrentCrateCount, count)
	}
	a.CurrentCrateCount -= count
	a.Touch()
	return nil
}
