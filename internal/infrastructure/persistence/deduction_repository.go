package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/deduction"
	"github.com/halmarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDefinitionRepository implements DefinitionRepository using GORM
type GormDefinitionRepository struct {
	db *gorm.DB
}

// NewGormDefinitionRepository creates a new GormDefinitionRepository
func NewGormDefinitionRepository(db *gorm.DB) *GormDefinitionRepository {
	return &GormDefinitionRepository{db: db}
}

// FindByID finds a deduction definition by its ID
func (r *GormDefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*deduction.Definition, error) {
	var def deduction.Definition
	if err := r.db.WithContext(ctx).First(&def, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &def, nil
}

// FindByCode finds a deduction definition by its code
func (r *GormDefinitionRepository) FindByCode(ctx context.Context, code string) (*deduction.Definition, error) {
	var def deduction.Definition
	if err := r.db.WithContext(ctx).First(&def, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &def, nil
}

// FindActive finds the definitions applied to new documents
func (r *GormDefinitionRepository) FindActive(ctx context.Context) ([]deduction.Definition, error) {
	var defs []deduction.Definition
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("code ASC").
		Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// FindAll finds all definitions including deactivated ones
func (r *GormDefinitionRepository) FindAll(ctx context.Context) ([]deduction.Definition, error) {
	var defs []deduction.Definition
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// Save creates or updates a definition
func (r *GormDefinitionRepository) Save(ctx context.Context, def *deduction.Definition) error {
	return r.db.WithContext(ctx).Save(def).Error
}

// Ensure GormDefinitionRepository implements DefinitionRepository
var _ deduction.DefinitionRepository = (*GormDefinitionRepository)(nil)

// GormComputationRepository implements ComputationRepository using GORM.
// Computations are append-only audit rows.
type GormComputationRepository struct {
	db *gorm.DB
}

// NewGormComputationRepository creates a new GormComputationRepository
func NewGormComputationRepository(db *gorm.DB) *GormComputationRepository {
	return &GormComputationRepository{db: db}
}

// Create inserts computation rows
func (r *GormComputationRepository) Create(ctx context.Context, computations []*deduction.Computation) error {
	if len(computations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&computations).Error
}

// FindByDocument finds the computations recorded for one document
func (r *GormComputationRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]deduction.Computation, error) {
	var computations []deduction.Computation
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&computations).Error; err != nil {
		return nil, err
	}
	return computations, nil
}

// Ensure GormComputationRepository implements ComputationRepository
var _ deduction.ComputationRepository = (*GormComputationRepository)(nil)
