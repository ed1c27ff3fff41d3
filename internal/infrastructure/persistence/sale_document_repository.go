package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/settlement"
	"github.com/halmarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSaleDocumentRepository implements SaleDocumentRepository using GORM
type GormSaleDocumentRepository struct {
	db *gorm.DB
}

// NewGormSaleDocumentRepository creates a new GormSaleDocumentRepository
func NewGormSaleDocumentRepository(db *gorm.DB) *GormSaleDocumentRepository {
	return &GormSaleDocumentRepository{db: db}
}

// FindByID finds a sale document with its lines by ID
func (r *GormSaleDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.SaleDocument, error) {
	var doc settlement.SaleDocument
	if err := r.db.WithContext(ctx).Preload("Lines").First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByNumber finds a sale document by its document number
func (r *GormSaleDocumentRepository) FindByNumber(ctx context.Context, number string) (*settlement.SaleDocument, error) {
	var doc settlement.SaleDocument
	if err := r.db.WithContext(ctx).Preload("Lines").First(&doc, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByStatus finds documents in one status, newest first
func (r *GormSaleDocumentRepository) FindByStatus(ctx context.Context, status settlement.DocumentStatus, filter shared.Filter) (*shared.Paginated[settlement.SaleDocument], error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&settlement.SaleDocument{}).Where("status = ?", status), filter)
}

// FindAll finds documents matching the filter
func (r *GormSaleDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[settlement.SaleDocument], error) {
	query := r.db.WithContext(ctx).Model(&settlement.SaleDocument{})
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		case "producer_id":
			query = query.Where("producer_id = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	return r.paginate(ctx, query, filter)
}

// Save creates or updates a document together with its lines
func (r *GormSaleDocumentRepository) Save(ctx context.Context, doc *settlement.SaleDocument) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(doc).Error
}

func (r *GormSaleDocumentRepository) paginate(ctx context.Context, query *gorm.DB, filter shared.Filter) (*shared.Paginated[settlement.SaleDocument], error) {
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
		query = query.Order("created_at DESC")
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var docs []settlement.SaleDocument
	if err := query.Preload("Lines").Offset(offset).Limit(pageSize).Find(&docs).Error; err != nil {
		return nil, err
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &shared.Paginated[settlement.SaleDocument]{
		Items:      docs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Ensure GormSaleDocumentRepository implements SaleDocumentRepository
var _ settlement.SaleDocumentRepository = (*GormSaleDocumentRepository)(nil)
