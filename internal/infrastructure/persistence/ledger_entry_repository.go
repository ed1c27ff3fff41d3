package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM.
// The ledger is append-only; entries are never updated or deleted.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Create inserts ledger entries
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entries []*partner.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// FindByParty finds a party's entries, newest first unless ordered otherwise
func (r *GormLedgerEntryRepository) FindByParty(ctx context.Context, partyID uuid.UUID, filter shared.Filter) (*shared.Paginated[partner.LedgerEntry], error) {
	query := r.db.WithContext(ctx).Model(&partner.LedgerEntry{}).Where("party_id = ?", partyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("posted_at DESC")
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var entries []partner.LedgerEntry
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
		return nil, err
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &shared.Paginated[partner.LedgerEntry]{
		Items:      entries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// FindByDocument finds the entries posted for one document
func (r *GormLedgerEntryRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]partner.LedgerEntry, error) {
	var entries []partner.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("posted_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumByParty replays a party's entries with the fixed sign convention:
// debits and collections add, credits and payments subtract
func (r *GormLedgerEntryRepository) SumByParty(ctx context.Context, partyID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&partner.LedgerEntry{}).
		Select("SUM(CASE WHEN kind IN ? THEN amount ELSE -amount END)",
			[]string{partner.EntryKindDebit.String(), partner.EntryKindCollection.String()}).
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

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ partner.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
