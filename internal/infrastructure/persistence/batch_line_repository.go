package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/inventory"
	"github.com/halmarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchLineRepository implements BatchLineRepository using GORM
type GormBatchLineRepository struct {
	db *gorm.DB
}

// NewGormBatchLineRepository creates a new GormBatchLineRepository
func NewGormBatchLineRepository(db *gorm.DB) *GormBatchLineRepository {
	return &GormBatchLineRepository{db: db}
}

// FindByID finds a batch line by its ID
func (r *GormBatchLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BatchLine, error) {
	var line inventory.BatchLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindEligible finds lines with remaining stock for a product in FIFO
// order: receipt date first, arrival sequence as the tiebreaker
func (r *GormBatchLineRepository) FindEligible(ctx context.Context, productID uuid.UUID, agentID *uuid.UUID) ([]inventory.BatchLine, error) {
	var lines []inventory.BatchLine
	query := r.db.WithContext(ctx).
		Where("product_id = ? AND remaining_weight > 0", productID)
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}
	if err := query.Order("receipt_date ASC, sequence ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByDelivery finds all lines recorded under one delivery
func (r *GormBatchLineRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]inventory.BatchLine, error) {
	var lines []inventory.BatchLine
	if err := r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID).
		Order("sequence ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindAll finds batch lines matching the filter
func (r *GormBatchLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.BatchLine, error) {
	var lines []inventory.BatchLine
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.BatchLine{}), filter)
	if err := query.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Save creates or updates a batch line
func (r *GormBatchLineRepository) Save(ctx context.Context, line *inventory.BatchLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// SaveAll creates or updates multiple batch lines
func (r *GormBatchLineRepository) SaveAll(ctx context.Context, lines []*inventory.BatchLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&lines).Error
}

// applyFilter applies filter options to the query
func (r *GormBatchLineRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("receipt_date ASC, sequence ASC")
	}

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("remaining_weight > 0")
			}
		}
	}

	return query
}

// Ensure GormBatchLineRepository implements BatchLineRepository
var _ inventory.BatchLineRepository = (*GormBatchLineRepository)(nil)
