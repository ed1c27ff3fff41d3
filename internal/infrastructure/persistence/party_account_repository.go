package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPartyAccountRepository implements PartyAccountRepository using GORM
type GormPartyAccountRepository struct {
	db *gorm.DB
}

// NewGormPartyAccountRepository creates a new GormPartyAccountRepository
func NewGormPartyAccountRepository(db *gorm.DB) *GormPartyAccountRepository {
	return &GormPartyAccountRepository{db: db}
}

// FindByID finds a party account by its ID
func (r *GormPartyAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.PartyAccount, error) {
	var account partner.PartyAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByCode finds a party account by its code
func (r *GormPartyAccountRepository) FindByCode(ctx context.Context, code string) (*partner.PartyAccount, error) {
	var account partner.PartyAccount
	if err := r.db.WithContext(ctx).First(&account, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByType finds accounts of one party type
func (r *GormPartyAccountRepository) FindByType(ctx context.Context, partyType partner.PartyType, filter shared.Filter) (*shared.Paginated[partner.PartyAccount], error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&partner.PartyAccount{}).Where("type = ?", partyType), filter)
}

// FindAll finds accounts matching the filter
func (r *GormPartyAccountRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.PartyAccount], error) {
	query := r.db.WithContext(ctx).Model(&partner.PartyAccount{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	return r.paginate(ctx, query, filter)
}

// Save creates or updates a party account
func (r *GormPartyAccountRepository) Save(ctx context.Context, account *partner.PartyAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *GormPartyAccountRepository) paginate(ctx context.Context, query *gorm.DB, filter shared.Filter) (*shared.Paginated[partner.PartyAccount], error) {
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
		query = query.Order("code ASC")
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var accounts []partner.PartyAccount
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&accounts).Error; err != nil {
		return nil, err
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &shared.Paginated[partner.PartyAccount]{
		Items:      accounts,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Ensure GormPartyAccountRepository implements PartyAccountRepository
var _ partner.PartyAccountRepository = (*GormPartyAccountRepository)(nil)
