package deposit

import (
	"context"

	"github.com/halmarket/backend/internal/domain/deposit"
	"github.com/halmarket/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories a
// deposit movement touches. A pledge or return commits the holding, the
// party account and the ticket together or not at all.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the deposit repositories
// within one transaction
type TransactionalRepositories interface {
	Accounts() partner.PartyAccountRepository
	Holdings() deposit.CrateHoldingRepository
	Tickets() deposit.DepositTicketRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	AccountRepo partner.PartyAccountRepository
	HoldingRepo deposit.CrateHoldingRepository
	TicketRepo  deposit.DepositTicketRepository
}

// Execute runs the function directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Accounts() partner.PartyAccountRepository { return s.AccountRepo }
func (s *NoOpTransactionScope) Holdings() deposit.CrateHoldingRepository { return s.HoldingRepo }
func (s *NoOpTransactionScope) Tickets() deposit.DepositTicketRepository { return s.TicketRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
