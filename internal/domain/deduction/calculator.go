package deduction

import (
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Compute calculates the deduction amount for one transaction line. It is
// pure and side-effect free; callers are responsible for skipping
// deactivated definitions.
//
//   - Percentage: baseAmount * rate / 100, clamped to [min, max]
//     (a zero max means no ceiling)
//   - Per-container: baseContainers * fixedAmount, no clamp
//   - Per-weight: baseWeight * fixedAmount, no clamp
//   - Flat: fixedAmount regardless of quantity
func Compute(def *Definition, baseWeight decimal.Decimal, baseContainers int64, baseAmount decimal.Decimal) (decimal.Decimal, error) {
	if def == nil {
		return decimal.Zero, shared.NewInvalidInputError("deduction definition", "cannot be nil")
	}
	if baseWeight.IsNegative() {
		return decimal.Zero, shared.NewInvalidInputError("base weight", "cannot be negative")
	}
	if baseContainers < 0 {
		return decimal.Zero, shared.NewInvalidInputError("base container count", "cannot be negative")
	}
	if baseAmount.IsNegative() {
		return decimal.Zero, shared.NewInvalidInputError("base amount", "cannot be negative")
	}
	if err := def.Validate(); err != nil {
		return decimal.Zero, err
	}

	switch def.Kind {
	case KindPercentage:
		amount := baseAmount.Mul(def.Rate).Div(decimal.NewFromInt(100))
		if amount.LessThan(def.MinAmount) {
			amount = def.MinAmount
		}
		if !def.MaxAmount.IsZero() && amount.GreaterThan(def.MaxAmount) {
			amount = def.MaxAmount
		}
		return amount.Round(2), nil
	case KindPerContainer:
		return decimal.NewFromInt(baseContainers).Mul(def.FixedAmount).Round(2), nil
	case KindPerWeight:
		return baseWeight.Mul(def.FixedAmount).Round(2), nil
	case KindFlat:
		return def.FixedAmount.Round(2), nil
	default:
		return decimal.Zero, shared.NewInvalidInputError("deduction kind", "unknown computation kind "+string(def.Kind))
	}
}
