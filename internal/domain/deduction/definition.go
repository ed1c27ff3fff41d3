package deduction

import (
	"time"

	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind defines how a deduction amount is computed
type Kind string

const (
	// KindPercentage computes a percentage of the base amount, clamped to [min, max]
	KindPercentage Kind = "PERCENTAGE"
	// KindPerContainer charges a fixed amount per container
	KindPerContainer Kind = "PER_CONTAINER"
	// KindPerWeight charges a fixed amount per weight unit
	KindPerWeight Kind = "PER_WEIGHT"
	// KindFlat charges a fixed amount regardless of quantity
	KindFlat Kind = "FLAT"
)

// IsValid checks if the kind is a valid computation kind
func (k Kind) IsValid() bool {
	switch k {
	case KindPercentage, KindPerContainer, KindPerWeight, KindFlat:
		return true
	}
	return false
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Definition is a named statutory or commercial deduction (rüsum, komisyon,
// stopaj, hamaliye, nakliye, bağkur). Reference data: rarely mutated, and
// deactivated logically so historical computations stay resolvable.
//
// ProducerBorne and BuyerBorne are independent flags carried over from how
// the market configures deductions; both may be set on the same definition.
type Definition struct {
	shared.BaseEntity
	Code          string `gorm:"uniqueIndex"`
	Name          string
	Kind          Kind
	Rate          decimal.Decimal // percent, for KindPercentage
	FixedAmount   decimal.Decimal // per container / per weight unit / flat
	MinAmount     decimal.Decimal // percentage clamp floor
	MaxAmount     decimal.Decimal // percentage clamp ceiling; zero means unbounded
	ProducerBorne bool
	BuyerBorne    bool
	Active        bool
	DeactivatedAt *time.Time
}

// TableName returns the database table name
func (Definition) TableName() string {
	return "deduction_definitions"
}

// NewDefinition creates a new deduction definition
func NewDefinition(code, name string, kind Kind, rate, fixedAmount, minAmount, maxAmount decimal.Decimal, producerBorne, buyerBorne bool) (*Definition, error) {
	if code == "" {
		return nil, shared.NewInvalidInputError("deduction code", "cannot be empty")
	}
	if name == "" {
		return nil, shared.NewInvalidInputError("deduction name", "cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewInvalidInputError("deduction kind", "unknown computation kind "+string(kind))
	}

	d := &Definition{
		BaseEntity:    shared.NewBaseEntity(),
		Code:          code,
		Name:          name,
		Kind:          kind,
		Rate:          rate,
		FixedAmount:   fixedAmount,
		MinAmount:     minAmount,
		MaxAmount:     maxAmount,
		ProducerBorne: producerBorne,
		BuyerBorne:    buyerBorne,
		Active:        true,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate rejects configurations that would produce a negative amount.
// A percentage definition whose clamp ceiling is below zero, or whose floor
// exceeds a non-zero ceiling, can never yield a valid charge.
func (d *Definition) Validate() error {
	if d.Rate.IsNegative() {
		return shared.NewDomainError(shared.ErrInvalidDeductionConfiguration.Code,
			"Deduction "+d.Code+" has a negative rate")
	}
	if d.FixedAmount.IsNegative() {
		return shared.NewDomainError(shared.ErrInvalidDeductionConfiguration.Code,
			"Deduction "+d.Code+" has a negative fixed amount")
	}
	if d.Kind == KindPercentage {
		if d.MaxAmount.IsNegative() {
			return shared.NewDomainError(shared.ErrInvalidDeductionConfiguration.Code,
				"Deduction "+d.Code+" clamps to a negative maximum")
		}
		if d.MinAmount.IsNegative() {
			return shared.NewDomainError(shared.ErrInvalidDeductionConfiguration.Code,
				"Deduction "+d.Code+" clamps to a negative minimum")
		}
		if !d.MaxAmount.IsZero() && d.MinAmount.GreaterThan(d.MaxAmount) {
			return shared.NewDomainError(shared.ErrInvalidDeductionConfiguration.Code,
				"Deduction "+d.Code+" has clamp minimum above maximum")
		}
	}
	return nil
}

// Deactivate logically disables the definition. Historical computations
// keep referencing it; it is simply skipped for new documents.
func (d *Definition) Deactivate() {
	if !d.Active {
		return
	}
	now := time.Now()
	d.Active = false
	d.DeactivatedAt = &now
	d.Touch()
}

// Reactivate re-enables a deactivated definition
func (d *Definition) Reactivate() {
	if d.Active {
		return
	}
	d.Active = true
	d.DeactivatedAt = nil
	d.Touch()
}
