package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateAccountRequest is the command to register a counter-party
type CreateAccountRequest struct {
	Code              string          `json:"code" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	Type              string          `json:"type" binding:"required"`
	RiskLimit         decimal.Decimal `json:"risk_limit"`
	CrateHoldingLimit int64           `json:"crate_holding_limit" binding:"omitempty,min=0"`
}

// UpdateLimitsRequest adjusts a party's advisory and crate limits
type UpdateLimitsRequest struct {
	RiskLimit         *decimal.Decimal `json:"risk_limit,omitempty"`
	CrateHoldingLimit *int64           `json:"crate_holding_limit,omitempty"`
}

// AccountResponse is one party account in API responses
type AccountResponse struct {
	ID                uuid.UUID       `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Balance           decimal.Decimal `json:"balance"`
	RiskLimit         decimal.Decimal `json:"risk_limit"`
	CrateHoldingLimit int64           `json:"crate_holding_limit"`
	CurrentCrateCount int64           `json:"current_crate_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToAccountResponse converts a party account to its API representation
func ToAccountResponse(account *partner.PartyAccount) AccountResponse {
	return AccountResponse{
		ID:                account.ID,
		Code:              account.Code,
		Name:              account.Name,
		Type:              account.Type.String(),
		Balance:           account.Balance,
		RiskLimit:         account.RiskLimit,
		CrateHoldingLimit: account.CrateHoldingLimit,
		CurrentCrateCount: account.CurrentCrateCount,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
}

// AccountService manages the counter-party register
type AccountService struct {
	accounts partner.PartyAccountRepository
	entries  partner.LedgerEntryRepository
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts partner.PartyAccountRepository, entries partner.LedgerEntryRepository, logger *zap.Logger) *AccountService {
	return &AccountService{accounts: accounts, entries: entries, logger: logger}
}

// Create registers a new party account
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	if existing, err := s.accounts.FindByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"Party with code "+req.Code+" already exists")
	}

	account, err := partner.NewPartyAccount(req.Code, req.Name, partner.PartyType(req.Type))
	if err != nil {
		return nil, err
	}
	if !req.RiskLimit.IsZero() {
		if err := account.SetRiskLimit(req.RiskLimit); err != nil {
			return nil, err
		}
	}
	if req.CrateHoldingLimit > 0 {
		if err := account.SetCrateHoldingLimit(req.CrateHoldingLimit); err != nil {
			return nil, err
		}
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("party account created",
		zap.String("party_id", account.ID.String()),
		zap.String("code", account.Code),
		zap.String("type", account.Type.String()),
	)
	resp := ToAccountResponse(account)
	return &resp, nil
}

// UpdateLimits adjusts a party's limits
func (s *AccountService) UpdateLimits(ctx context.Context, id uuid.UUID, req UpdateLimitsRequest) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RiskLimit != nil {
		if err := account.SetRiskLimit(*req.RiskLimit); err != nil {
			return nil, err
		}
	}
	if req.CrateHoldingLimit != nil {
		if err := account.SetCrateHoldingLimit(*req.CrateHoldingLimit); err != nil {
			return nil, err
		}
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// GetByID returns one party account
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// List returns party accounts matching the filter
func (s *AccountService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[AccountResponse], error) {
	page, err := s.accounts.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToAccountResponse(&page.Items[i]))
	}
	return &shared.Paginated[AccountResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Entries returns a party's ledger entries
func (s *AccountService) Entries(ctx context.Context, partyID uuid.UUID, filter shared.Filter) (*shared.Paginated[EntryResponse], error) {
	page, err := s.entries.FindByParty(ctx, partyID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]EntryResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToEntryResponse(&page.Items[i]))
	}
	return &shared.Paginated[EntryResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}
