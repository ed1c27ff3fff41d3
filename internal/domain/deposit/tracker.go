package deposit

import (
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Pledge lends count containers of the holding's type to the party against
// a refundable deposit fee. Fails with DepositLimitExceeded when the
// party's total crate count would breach its holding limit; on failure
// neither the holding nor the account is touched.
func Pledge(holding *CrateHolding, account *partner.PartyAccount, count int64, unitFee decimal.Decimal) (*DepositTicket, error) {
	if holding == nil || account == nil {
		return nil, shared.NewInvalidInputError("pledge", "holding and account are required")
	}
	if holding.PartyID != account.ID {
		return nil, shared.NewInvalidInputError("holding", "belongs to a different party")
	}
	if count <= 0 {
		return nil, shared.NewInvalidInputError("container count", "must be positive")
	}
	if unitFee.IsNegative() {
		return nil, shared.NewInvalidInputError("unit deposit fee", "cannot be negative")
	}
	if !account.CanHold(count) {
		return nil, shared.NewDepositLimitExceededError(account.Name, holding.ContainerType,
			account.CurrentCrateCount, count, account.CrateHoldingLimit)
	}

	if err := account.AddCrates(count); err != nil {
		return nil, err
	}
	holding.pledge(count, unitFee)

	amount := decimal.NewFromInt(count).Mul(unitFee)
	return newDepositTicket(account.ID, holding.ContainerType, count, unitFee, amount, DirectionIssue), nil
}

// Return takes count containers back from the party and releases their
// deposit value proportionally. Fails with OverReturn when the party does
// not hold that many containers of the type; on failure nothing is touched.
func Return(holding *CrateHolding, account *partner.PartyAccount, count int64) (*DepositTicket, error) {
	if holding == nil || account == nil {
		return nil, shared.NewInvalidInputError("return", "holding and account are required")
	}
	if holding.PartyID != account.ID {
		return nil, shared.NewInvalidInputError("holding", "belongs to a different party")
	}
	if count <= 0 {
		return nil, shared.NewInvalidInputError("container count", "must be positive")
	}
	if count > holding.TotalCount() {
		return nil, shared.NewOverReturnError(account.Name, holding.ContainerType, holding.TotalCount(), count)
	}

	if err := account.RemoveCrates(count); err != nil {
		return nil, err
	}
	released := holding.release(count)

	var unitFee decimal.Decimal
	if count > 0 {
		unitFee = released.Div(decimal.NewFromInt(count)).Round(2)
	}
	return newDepositTicket(account.ID, holding.ContainerType, count, unitFee, released, DirectionReturn), nil
}
