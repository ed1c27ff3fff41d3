package persistence

import (
	"context"

	appdeposit "github.com/halmarket/backend/internal/application/deposit"
	"github.com/halmarket/backend/internal/domain/deposit"
	"github.com/halmarket/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormDepositTransactionScope implements the deposit TransactionScope using
// GORM transactions
type GormDepositTransactionScope struct {
	db *gorm.DB
}

// NewGormDepositTransactionScope creates a new GormDepositTransactionScope
func NewGormDepositTransactionScope(db *gorm.DB) *GormDepositTransactionScope {
	return &GormDepositTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormDepositTransactionScope) Execute(ctx context.Context, fn func(repos appdeposit.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormDepositRepositories{tx: tx})
	})
}

type gormDepositRepositories struct {
	tx *gorm.DB
}

func (r *gormDepositRepositories) Accounts() partner.PartyAccountRepository {
	return NewGormPartyAccountRepository(r.tx)
}

func (r *gormDepositRepositories) Holdings() deposit.CrateHoldingRepository {
	return NewGormCrateHoldingRepository(r.tx)
}

func (r *gormDepositRepositories) Tickets() deposit.DepositTicketRepository {
	return NewGormDepositTicketRepository(r.tx)
}

// Ensure the scope satisfies the application interfaces
var _ appdeposit.TransactionScope = (*GormDepositTransactionScope)(nil)
var _ appdeposit.TransactionalRepositories = (*gormDepositRepositories)(nil)
