package settlement

import (
	"context"

	"github.com/halmarket/backend/internal/domain/deduction"
	"github.com/halmarket/backend/internal/domain/inventory"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/settlement"
)

// TransactionScope provides transactional access to every repository a
// document finalization touches. All repository operations inside one
// Execute call commit or roll back atomically: a failed allocation,
// deduction computation or ledger posting leaves no partial state.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the settlement
// repositories within one transaction
type TransactionalRepositories interface {
	Documents() settlement.SaleDocumentRepository
	BatchLines() inventory.BatchLineRepository
	Allocations() inventory.AllocationRecordRepository
	Definitions() deduction.DefinitionRepository
	Computations() deduction.ComputationRepository
	Accounts() partner.PartyAccountRepository
	Entries() partner.LedgerEntryRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests against in-memory repositories.
type NoOpTransactionScope struct {
	DocumentRepo    settlement.SaleDocumentRepository
	BatchLineRepo   inventory.BatchLineRepository
	AllocationRepo  inventory.AllocationRecordRepository
	DefinitionRepo  deduction.DefinitionRepository
	ComputationRepo deduction.ComputationRepository
	AccountRepo     partner.PartyAccountRepository
	EntryRepo       partner.LedgerEntryRepository
}

// Execute runs the function directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Documents() settlement.SaleDocumentRepository { return s.DocumentRepo }
func (s *NoOpTransactionScope) BatchLines() inventory.BatchLineRepository { return s.BatchLineRepo }
func (s *NoOpTransactionScope) Allocations() inventory.AllocationRecordRepository {
	return s.AllocationRepo
}
func (s *NoOpTransactionScope) Definitions() deduction.DefinitionRepository { return s.DefinitionRepo }
func (s *NoOpTransactionScope) Computations() deduction.ComputationRepository {
	return s.ComputationRepo
}
func (s *NoOpTransactionScope) Accounts() partner.PartyAccountRepository { return s.AccountRepo }
func (s *NoOpTransactionScope) Entries() partner.LedgerEntryRepository { return s.EntryRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
