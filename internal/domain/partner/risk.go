package partner

import (
	"github.com/shopspring/decimal"
)

// RiskAssessment is the advisory outcome of a risk evaluation. It never
// blocks anything; callers decide whether to proceed when WouldExceed
// is true.
type RiskAssessment struct {
	CurrentExposure decimal.Decimal `json:"current_exposure"`
	CandidateAmount decimal.Decimal `json:"candidate_amount"`
	Limit           decimal.Decimal `json:"limit"`
	WouldExceed     bool            `json:"would_exceed"`
}

// EvaluateRisk combines a party's ledger balance and its outstanding
// deposit exposure against its configured risk limit, for a candidate
// debt-creating amount. Pure and read-only. A zero limit means no limit
// is configured and never flags.
func EvaluateRisk(account *PartyAccount, depositExposure, candidate decimal.Decimal) RiskAssessment {
	exposure := account.Balance.Add(depositExposure)
	assessment := RiskAssessment{
		CurrentExposure: exposure,
		CandidateAmount: candidate,
		Limit:           account.RiskLimit,
	}
	if account.RiskLimit.IsPositive() {
		assessment.WouldExceed = exposure.Add(candidate).GreaterThan(account.RiskLimit)
	}
	return assessment
}
