package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormAllocationRecordRepository implements AllocationRecordRepository
// using GORM. The trail is append-only; there is no update or delete.
type GormAllocationRecordRepository struct {
	db *gorm.DB
}

// NewGormAllocationRecordRepository creates a new GormAllocationRecordRepository
func NewGormAllocationRecordRepository(db *gorm.DB) *GormAllocationRecordRepository {
	return &GormAllocationRecordRepository{db: db}
}

// Create inserts allocation records
func (r *GormAllocationRecordRepository) Create(ctx context.Context, records []*inventory.AllocationRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

// FindByBatchLine finds all allocations drawn from one batch line
func (r *GormAllocationRecordRepository) FindByBatchLine(ctx context.Context, batchLineID uuid.UUID) ([]inventory.AllocationRecord, error) {
	var records []inventory.AllocationRecord
	if err := r.db.WithContext(ctx).
		Where("batch_line_id = ?", batchLineID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByDocument finds all allocations made for one document
func (r *GormAllocationRecordRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]inventory.AllocationRecord, error) {
	var records []inventory.AllocationRecord
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Ensure GormAllocationRecordRepository implements AllocationRecordRepository
var _ inventory.AllocationRecordRepository = (*GormAllocationRecordRepository)(nil)
