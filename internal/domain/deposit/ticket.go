package deposit

import (
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TicketDirection distinguishes crates going out from crates coming back
type TicketDirection string

const (
	DirectionIssue  TicketDirection = "ISSUE"
	DirectionReturn TicketDirection = "RETURN"
)

// String returns the string representation of TicketDirection
func (d TicketDirection) String() string {
	return string(d)
}

// DepositTicket records one physical crate movement with its deposit value.
// Immutable once created; the holding state is always replayable from the
// party's tickets.
type DepositTicket struct {
	shared.BaseEntity
	PartyID       uuid.UUID `gorm:"index"`
	ContainerType string
	Count         int64
	UnitFee       decimal.Decimal
	Amount        decimal.Decimal // deposit value pledged or released
	Direction     TicketDirection
	Paid          bool
	IssuedAt      time.Time
}

func newDepositTicket(partyID uuid.UUID, containerType string, count int64, unitFee, amount decimal.Decimal, direction TicketDirection) *DepositTicket {
	return &DepositTicket{
		BaseEntity:    shared.NewBaseEntity(),
		PartyID:       partyID,
		ContainerType: containerType,
		Count:         count,
		UnitFee:       unitFee,
		Amount:        amount,
		Direction:     direction,
		IssuedAt:      time.Now(),
	}
}

// MarkPaid flags the ticket's deposit fee as settled in cash
func (t *DepositTicket) MarkPaid() {
	t.Paid = true
	t.Touch()
}
