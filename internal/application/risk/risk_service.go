package risk

import (
	"context"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/deposit"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EvaluationRequest asks whether a candidate debt-creating amount would
// push a party past its risk limit
type EvaluationRequest struct {
	PartyID uuid.UUID       `json:"party_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
}

// EvaluationResponse is the advisory outcome returned to the caller
type EvaluationResponse struct {
	PartyID         uuid.UUID       `json:"party_id"`
	PartyName       string          `json:"party_name"`
	LedgerBalance   decimal.Decimal `json:"ledger_balance"`
	DepositExposure decimal.Decimal `json:"deposit_exposure"`
	CurrentExposure decimal.Decimal `json:"current_exposure"`
	CandidateAmount decimal.Decimal `json:"candidate_amount"`
	Limit           decimal.Decimal `json:"limit"`
	WouldExceed     bool            `json:"would_exceed"`
}

// RiskService evaluates advisory risk limits. Read-only: it never blocks
// an operation, it only reports.
type RiskService struct {
	accounts partner.PartyAccountRepository
	holdings deposit.CrateHoldingRepository
	logger   *zap.Logger
}

// NewRiskService creates a new RiskService
func NewRiskService(accounts partner.PartyAccountRepository, holdings deposit.CrateHoldingRepository, logger *zap.Logger) *RiskService {
	return &RiskService{
		accounts: accounts,
		holdings: holdings,
		logger:   logger,
	}
}

// Evaluate combines the party's ledger balance and outstanding crate
// deposits into its exposure and checks the candidate amount against the
// configured limit
func (s *RiskService) Evaluate(ctx context.Context, req EvaluationRequest) (*EvaluationResponse, error) {
	account, err := s.accounts.FindByID(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}
	depositExposure, err := s.holdings.SumOutstandingByParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	assessment := partner.EvaluateRisk(account, depositExposure, req.Amount)
	if assessment.WouldExceed {
		s.logger.Info("risk limit would be exceeded",
			zap.String("party_id", account.ID.String()),
			zap.String("party", account.Name),
			zap.String("exposure", assessment.CurrentExposure.String()),
			zap.String("candidate", req.Amount.String()),
			zap.String("limit", assessment.Limit.String()),
		)
	}

	return &EvaluationResponse{
		PartyID:         account.ID,
		PartyName:       account.Name,
		LedgerBalance:   account.Balance,
		DepositExposure: depositExposure,
		CurrentExposure: assessment.CurrentExposure,
		CandidateAmount: assessment.CandidateAmount,
		Limit:           assessment.Limit,
		WouldExceed:     assessment.WouldExceed,
	}, nil
}
