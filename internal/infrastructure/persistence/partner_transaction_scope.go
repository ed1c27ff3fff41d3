package persistence

import (
	"context"

	apppartner "github.com/halmarket/backend/internal/application/partner"
	"github.com/halmarket/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormPartnerTransactionScope implements the partner TransactionScope using
// GORM transactions
type GormPartnerTransactionScope struct {
	db *gorm.DB
}

// NewGormPartnerTransactionScope creates a new GormPartnerTransactionScope
func NewGormPartnerTransactionScope(db *gorm.DB) *GormPartnerTransactionScope {
	return &GormPartnerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPartnerTransactionScope) Execute(ctx context.Context, fn func(repos apppartner.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPartnerRepositories{tx: tx})
	})
}

type gormPartnerRepositories struct {
	tx *gorm.DB
}

func (r *gormPartnerRepositories) Accounts() partner.PartyAccountRepository {
	return NewGormPartyAccountRepository(r.tx)
}

func (r *gormPartnerRepositories) Entries() partner.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// Ensure the scope satisfies the application interfaces
var _ apppartner.TransactionScope = (*GormPartnerTransactionScope)(nil)
var _ apppartner.TransactionalRepositories = (*gormPartnerRepositories)(nil)
