package deduction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/deduction"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateDefinitionRequest is the command to register a deduction definition
type CreateDefinitionRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Kind          string          `json:"kind" binding:"required"`
	Rate          decimal.Decimal `json:"rate"`
	FixedAmount   decimal.Decimal `json:"fixed_amount"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	MaxAmount     decimal.Decimal `json:"max_amount"`
	ProducerBorne bool            `json:"producer_borne"`
	BuyerBorne    bool            `json:"buyer_borne"`
}

// DefinitionResponse is one definition in API responses
type DefinitionResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Rate          decimal.Decimal `json:"rate"`
	FixedAmount   decimal.Decimal `json:"fixed_amount"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	MaxAmount     decimal.Decimal `json:"max_amount"`
	ProducerBorne bool            `json:"producer_borne"`
	BuyerBorne    bool            `json:"buyer_borne"`
	Active        bool            `json:"active"`
	DeactivatedAt *time.Time      `json:"deactivated_at,omitempty"`
}

// ToDefinitionResponse converts a definition to its API representation
func ToDefinitionResponse(def *deduction.Definition) DefinitionResponse {
	return DefinitionResponse{
		ID:            def.ID,
		Code:          def.Code,
		Name:          def.Name,
		Kind:          def.Kind.String(),
		Rate:          def.Rate,
		FixedAmount:   def.FixedAmount,
		MinAmount:     def.MinAmount,
		MaxAmount:     def.MaxAmount,
		ProducerBorne: def.ProducerBorne,
		BuyerBorne:    def.BuyerBorne,
		Active:        def.Active,
		DeactivatedAt: def.DeactivatedAt,
	}
}

// DefinitionService manages the deduction reference data
type DefinitionService struct {
	definitions deduction.DefinitionRepository
	logger      *zap.Logger
}

// NewDefinitionService creates a new DefinitionService
func NewDefinitionService(definitions deduction.DefinitionRepository, logger *zap.Logger) *DefinitionService {
	return &DefinitionService{definitions: definitions, logger: logger}
}

// Create registers a new deduction definition
func (s *DefinitionService) Create(ctx context.Context, req CreateDefinitionRequest) (*DefinitionResponse, error) {
	if existing, err := s.definitions.FindByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"Deduction with code "+req.Code+" already exists")
	}

	def, err := deduction.NewDefinition(req.Code, req.Name, deduction.Kind(req.Kind),
		req.Rate, req.FixedAmount, req.MinAmount, req.MaxAmount,
		req.ProducerBorne, req.BuyerBorne)
	if err != nil {
		return nil, err
	}
	if err := s.definitions.Save(ctx, def); err != nil {
		return nil, err
	}

	s.logger.Info("deduction definition created",
		zap.String("code", def.Code),
		zap.String("kind", def.Kind.String()),
	)
	resp := ToDefinitionResponse(def)
	return &resp, nil
}

// Deactivate logically disables a definition for new documents
func (s *DefinitionService) Deactivate(ctx context.Context, id uuid.UUID) (*DefinitionResponse, error) {
	def, err := s.definitions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	def.Deactivate()
	if err := s.definitions.Save(ctx, def); err != nil {
		return nil, err
	}
	resp := ToDefinitionResponse(def)
	return &resp, nil
}

// Reactivate re-enables a deactivated definition
func (s *DefinitionService) Reactivate(ctx context.Context, id uuid.UUID) (*DefinitionResponse, error) {
	def, err := s.definitions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	def.Reactivate()
	if err := s.definitions.Save(ctx, def); err != nil {
		return nil, err
	}
	resp := ToDefinitionResponse(def)
	return &resp, nil
}

// List returns all definitions, or only the active ones
func (s *DefinitionService) List(ctx context.Context, activeOnly bool) ([]DefinitionResponse, error) {
	var (
		defs []deduction.Definition
		err  error
	)
	if activeOnly {
		defs, err = s.definitions.FindActive(ctx)
	} else {
		defs, err = s.definitions.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	responses := make([]DefinitionResponse, 0, len(defs))
	for i := range defs {
		responses = append(responses, ToDefinitionResponse(&defs[i]))
	}
	return responses, nil
}
