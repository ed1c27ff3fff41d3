package deduction

import (
	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Computation is the realized amount of one Definition applied to one
// document line. Created at document finalization; immutable afterwards.
// Together the rows form the append-only audit trail the document totals
// must always be recomputable from.
type Computation struct {
	shared.BaseEntity
	DefinitionID   uuid.UUID
	DefinitionCode string // denormalized so the audit trail survives renames
	DocumentID     uuid.UUID
	LineID         uuid.UUID
	BaseAmount     decimal.Decimal
	RateUsed       decimal.Decimal
	FixedUsed      decimal.Decimal
	Amount         decimal.Decimal
	ProducerBorne  bool
	BuyerBorne     bool
}

// TableName returns the database table name
func (Computation) TableName() string {
	return "deduction_computations"
}

// NewComputation records the outcome of applying a definition to a line
func NewComputation(def *Definition, documentID, lineID uuid.UUID, baseAmount, amount decimal.Decimal) *Computation {
	return &Computation{
		BaseEntity:     shared.NewBaseEntity(),
		DefinitionID:   def.ID,
		DefinitionCode: def.Code,
		DocumentID:     documentID,
		LineID:         lineID,
		BaseAmount:     baseAmount,
		RateUsed:       def.Rate,
		FixedUsed:      def.FixedAmount,
		Amount:         amount,
		ProducerBorne:  def.ProducerBorne,
		BuyerBorne:     def.BuyerBorne,
	}
}
