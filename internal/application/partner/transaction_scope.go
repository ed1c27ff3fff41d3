package partner

import (
	"context"

	"github.com/halmarket/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the ledger
// repositories. A posting commits the entry and the balance update
// together or not at all.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the partner repositories
// within one transaction
type TransactionalRepositories interface {
	Accounts() partner.PartyAccountRepository
	Entries() partner.LedgerEntryRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	AccountRepo partner.PartyAccountRepository
	EntryRepo   partner.LedgerEntryRepository
}

// Execute runs the function directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Accounts() partner.PartyAccountRepository { return s.AccountRepo }
func (s *NoOpTransactionScope) Entries() partner.LedgerEntryRepository { return s.EntryRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
