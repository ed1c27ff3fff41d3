package deduction

import (
	"context"

	"github.com/google/uuid"
)

// DefinitionRepository defines persistence for deduction reference data
type DefinitionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Definition, error)
	FindByCode(ctx context.Context, code string) (*Definition, error)
	FindActive(ctx context.Context) ([]Definition, error)
	FindAll(ctx context.Context) ([]Definition, error)
	Save(ctx context.Context, def *Definition) error
}

// ComputationRepository defines persistence for the append-only
// deduction audit trail
type ComputationRepository interface {
	Create(ctx context.Context, computations []*Computation) error
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]Computation, error)
}
