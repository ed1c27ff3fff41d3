package deposit

import (
	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CrateHolding tracks the returnable containers of one container type held
// by one party, with the cumulative deposit value outstanding against them.
// Counts and the outstanding value are never negative; Pledge and Return
// are the only mutators.
type CrateHolding struct {
	shared.BaseEntity
	PartyID            uuid.UUID `gorm:"index:idx_holding_party_type,unique"`
	ContainerType      string    `gorm:"index:idx_holding_party_type,unique"`
	FullCount          int64
	EmptyCount         int64
	OutstandingDeposit decimal.Decimal
}

// NewCrateHolding creates an empty holding for a (party, container type) pair
func NewCrateHolding(partyID uuid.UUID, containerType string) (*CrateHolding, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewInvalidInputError("party", "cannot be empty")
	}
	if containerType == "" {
		return nil, shared.NewInvalidInputError("container type", "cannot be empty")
	}
	return &CrateHolding{
		BaseEntity:         shared.NewBaseEntity(),
		PartyID:            partyID,
		ContainerType:      containerType,
		OutstandingDeposit: decimal.Zero,
	}, nil
}

// TotalCount returns full plus empty containers held
func (h *CrateHolding) TotalCount() int64 {
	return h.FullCount + h.EmptyCount
}

// MarkEmptied moves containers from the full count to the empty count as
// the party unpacks them. The deposit value is unaffected.
func (h *CrateHolding) MarkEmptied(count int64) error {
	if count <= 0 {
		return shared.NewInvalidInputError("container count", "must be positive")
	}
	if count > h.FullCount {
		return shared.NewInvalidInputError("container count", "exceeds full containers held")
	}
	h.FullCount -= count
	h.EmptyCount += count
	h.Touch()
	return nil
}

// pledge adds count full containers and their deposit value.
// Limit checks happen in Pledge before this is reached.
func (h *CrateHolding) pledge(count int64, unitFee decimal.Decimal) {
	h.FullCount += count
	h.OutstandingDeposit = h.OutstandingDeposit.Add(decimal.NewFromInt(count).Mul(unitFee))
	h.Touch()
}

// release removes count containers, empties first, and reduces the
// outstanding deposit proportionally. A full return releases the entire
// outstanding value so the holding lands on exactly zero. Returns the
// deposit value released.
func (h *CrateHolding) release(count int64) decimal.Decimal {
	total := h.TotalCount()

	var released decimal.Decimal
	if count == total {
		released = h.OutstandingDeposit
	} else {
		released = h.OutstandingDeposit.Mul(decimal.NewFromInt(count)).Div(decimal.NewFromInt(total)).Round(2)
	}
	h.OutstandingDeposit = h.OutstandingDeposit.Sub(released)

	fromEmpty := count
	if fromEmpty > h.EmptyCount {
		fromEmpty = h.EmptyCount
	}
	h.EmptyCount -= fromEmpty
	h.FullCount -= count - fromEmpty
	h.Touch()
	return released
}
