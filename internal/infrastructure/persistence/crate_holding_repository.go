package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/deposit"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCrateHoldingRepository implements CrateHoldingRepository using GORM
type GormCrateHoldingRepository struct {
	db *gorm.DB
}

// NewGormCrateHoldingRepository creates a new GormCrateHoldingRepository
func NewGormCrateHoldingRepository(db *gorm.DB) *GormCrateHoldingRepository {
	return &GormCrateHoldingRepository{db: db}
}

// FindByPartyAndType finds the holding for one party and container type
func (r *GormCrateHoldingRepository) FindByPartyAndType(ctx context.Context, partyID uuid.UUID, containerType string) (*deposit.CrateHolding, error) {
	var holding deposit.CrateHolding
	if err := r.db.WithContext(ctx).
		First(&holding, "party_id = ? AND container_type = ?", partyID, containerType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &holding, nil
}

// FindByParty finds all of a party's holdings
func (r *GormCrateHoldingRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]deposit.CrateHolding, error) {
	var holdings []deposit.CrateHolding
	if err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("container_type ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// SumOutstandingByParty sums the outstanding deposit value across all of a
// party's container types
func (r *GormCrateHoldingRepository) SumOutstandingByParty(ctx context.Context, partyID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&deposit.CrateHolding{}).
		Select("SUM(outstanding_deposit)").
		Where("party_id = ?", partyID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Save creates or updates a holding
func (r *GormCrateHoldingRepository) Save(ctx context.Context, holding *deposit.CrateHolding) error {
	return r.db.WithContext(ctx).Save(holding).Error
}

// Ensure GormCrateHoldingRepository implements CrateHoldingRepository
var _ deposit.CrateHoldingRepository = (*GormCrateHoldingRepository)(nil)

// GormDepositTicketRepository implements DepositTicketRepository using GORM.
// Tickets are the append-only receipt trail of crate movements.
type GormDepositTicketRepository struct {
	db *gorm.DB
}

// NewGormDepositTicketRepository creates a new GormDepositTicketRepository
func NewGormDepositTicketRepository(db *gorm.DB) *GormDepositTicketRepository {
	return &GormDepositTicketRepository{db: db}
}

// Create inserts a ticket
func (r *GormDepositTicketRepository) Create(ctx context.Context, ticket *deposit.DepositTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// FindByParty finds a party's tickets, newest first
func (r *GormDepositTicketRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]deposit.DepositTicket, error) {
	var tickets []deposit.DepositTicket
	if err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("issued_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// Ensure GormDepositTicketRepository implements DepositTicketRepository
var _ deposit.DepositTicketRepository = (*GormDepositTicketRepository)(nil)
