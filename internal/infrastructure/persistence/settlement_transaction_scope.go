package persistence

import (
	"context"

	appsettlement "github.com/halmarket/backend/internal/application/settlement"
	"github.com/halmarket/backend/internal/domain/deduction"
	"github.com/halmarket/backend/internal/domain/inventory"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/settlement"
	"gorm.io/gorm"
)

// GormSettlementTransactionScope implements the settlement TransactionScope
// using GORM transactions. Finalization touches documents, stock, deduction
// rows and ledger postings; they commit together or roll back together.
type GormSettlementTransactionScope struct {
	db *gorm.DB
}

// NewGormSettlementTransactionScope creates a new GormSettlementTransactionScope
func NewGormSettlementTransactionScope(db *gorm.DB) *GormSettlementTransactionScope {
	return &GormSettlementTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormSettlementTransactionScope) Execute(ctx context.Context, fn func(repos appsettlement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSettlementRepositories{tx: tx})
	})
}

type gormSettlementRepositories struct {
	tx *gorm.DB
}

func (r *gormSettlementRepositories) Documents() settlement.SaleDocumentRepository {
	return NewGormSaleDocumentRepository(r.tx)
}

func (r *gormSettlementRepositories) BatchLines() inventory.BatchLineRepository {
	return NewGormBatchLineRepository(r.tx)
}

func (r *gormSettlementRepositories) Allocations() inventory.AllocationRecordRepository {
	return NewGormAllocationRecordRepository(r.tx)
}

func (r *gormSettlementRepositories) Definitions() deduction.DefinitionRepository {
	return NewGormDefinitionRepository(r.tx)
}

func (r *gormSettlementRepositories) Computations() deduction.ComputationRepository {
	return NewGormComputationRepository(r.tx)
}

func (r *gormSettlementRepositories) Accounts() partner.PartyAccountRepository {
	return NewGormPartyAccountRepository(r.tx)
}

func (r *gormSettlementRepositories) Entries() partner.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// Ensure the scope satisfies the application interfaces
var _ appsettlement.TransactionScope = (*GormSettlementTransactionScope)(nil)
var _ appsettlement.TransactionalRepositories = (*gormSettlementRepositories)(nil)
