package settlement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/deduction"
	"github.com/halmarket/backend/internal/domain/inventory"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/settlement"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/halmarket/backend/internal/infrastructure/locking"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NotificationEnqueuer enqueues the regulatory notification for a
// finalized document. Called after the finalize transaction commits.
type NotificationEnqueuer interface {
	EnqueueForDocument(ctx context.Context, doc *settlement.SaleDocument) error
}

// FinalizeService orchestrates document finalization: FIFO lot
// allocation, deduction computation, total recomputation and ledger
// postings, all inside one transaction. Every entity the finalization
// mutates is locked first in stable order, so concurrent finalizations
// sharing batch lines or parties serialize instead of interleaving
// their read-modify-write.
type FinalizeService struct {
	scope    TransactionScope
	locks    *locking.EntityLockManager
	enqueuer NotificationEnqueuer
	logger   *zap.Logger
}

// NewFinalizeService creates a new FinalizeService
func NewFinalizeService(scope TransactionScope, locks *locking.EntityLockManager, logger *zap.Logger) *FinalizeService {
	return &FinalizeService{
		scope:  scope,
		locks:  locks,
		logger: logger,
	}
}

// SetNotificationEnqueuer wires the post-commit notification hook
func (s *FinalizeService) SetNotificationEnqueuer(enqueuer NotificationEnqueuer) {
	s.enqueuer = enqueuer
}

// errLockSetStale aborts the finalize transaction when the transactional
// eligible-line read returns a batch line the snapshot did not lock. The
// caller re-collects the lock set and retries; nothing is mutated on this
// path because allocateLines validates before the first take.
var errLockSetStale = errors.New("eligible batch lines changed after lock snapshot")

// Finalize transitions a draft document to confirmed. All of allocation,
// deduction computation, ledger postings and the state transition commit
// together or not at all.
//
// The lock set is collected from a pre-transaction snapshot, so a batch
// line can become eligible between the snapshot and the transactional
// read. The transaction validates every eligible line against the held
// locks and aborts with errLockSetStale on a miss; Finalize then widens
// the lock set and retries, so no batch line is ever mutated without its
// lock held.
func (s *FinalizeService) Finalize(ctx context.Context, documentID uuid.UUID) (*DocumentResponse, error) {
	lockIDs, err := s.collectLockTargets(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var finalized *settlement.SaleDocument
	for {
		locked := make(map[uuid.UUID]struct{}, len(lockIDs))
		for _, id := range lockIDs {
			locked[id] = struct{}{}
		}

		release := s.locks.AcquireAll(lockIDs)
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			doc, err := repos.Documents().FindByID(ctx, documentID)
			if err != nil {
				return err
			}
			if !doc.IsDraft() {
				return shared.NewDomainError(shared.ErrDocumentNotInDraft.Code,
					"Document "+doc.Number+" is not in draft status")
			}

			if err := s.allocateLines(ctx, repos, doc, locked); err != nil {
				return err
			}
			if err := s.applyDeductions(ctx, repos, doc); err != nil {
				return err
			}
			if err := doc.Confirm(); err != nil {
				return err
			}
			if err := s.postLedgerEntries(ctx, repos, doc); err != nil {
				return err
			}
			if err := repos.Documents().Save(ctx, doc); err != nil {
				return err
			}

			finalized = doc
			return nil
		})
		release()

		if errors.Is(err, errLockSetStale) {
			lockIDs, err = s.collectLockTargets(ctx, documentID)
			if err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	s.logger.Info("document finalized",
		zap.String("document_id", finalized.ID.String()),
		zap.String("number", finalized.Number),
		zap.String("kind", finalized.Kind.String()),
		zap.String("grand_total", finalized.GrandTotal.String()),
	)

	// Drain the aggregate events raised by Confirm; the confirmed event
	// feeds the notification queue once the transaction is committed.
	for _, event := range finalized.GetDomainEvents() {
		if event.EventType() != settlement.EventTypeDocumentConfirmed || s.enqueuer == nil {
			continue
		}
		if err := s.enqueuer.EnqueueForDocument(ctx, finalized); err != nil {
			// the document is committed; delivery is at-least-once and
			// the queue can be fed again manually
			s.logger.Error("failed to enqueue notification",
				zap.String("document_id", finalized.ID.String()),
				zap.Error(err),
			)
		}
	}
	finalized.ClearDomainEvents()

	response := ToDocumentResponse(finalized)
	return &response, nil
}

// collectLockTargets gathers every entity a finalization may touch: both
// party accounts and all currently eligible batch lines per document line.
// The lock manager sorts them, so concurrent finalizations sharing a
// subset acquire in the same global order.
func (s *FinalizeService) collectLockTargets(ctx context.Context, documentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.Documents().FindByID(ctx, documentID)
		if err != nil {
			return err
		}

		ids = append(ids, doc.BuyerID)
		if doc.ProducerID != uuid.Nil {
			ids = append(ids, doc.ProducerID)
		}
		for _, line := range doc.Lines {
			eligible, err := repos.BatchLines().FindEligible(ctx, line.ProductID, line.SourceAgentID)
			if err != nil {
				return err
			}
			for _, bl := range eligible {
				ids = append(ids, bl.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// allocateLines draws stock for every document line in FIFO order and
// persists the allocation records. Any insufficiency aborts before a
// single batch line is mutated. Every eligible line must already be in
// the locked set; an unlocked line means the pre-transaction snapshot is
// stale and the whole finalize must retry under a wider lock set.
func (s *FinalizeService) allocateLines(ctx context.Context, repos TransactionalRepositories, doc *settlement.SaleDocument, locked map[uuid.UUID]struct{}) error {
	for _, line := range doc.Lines {
		eligible, err := repos.BatchLines().FindEligible(ctx, line.ProductID, line.SourceAgentID)
		if err != nil {
			return err
		}
		for i := range eligible {
			if _, ok := locked[eligible[i].ID]; !ok {
				return errLockSetStale
			}
		}

		plan, err := inventory.PlanAllocation(line.ProductID, line.ProductName, line.NetWeight, line.SourceAgentID, eligible)
		if err != nil {
			return err
		}
		if plan.IsEmpty() {
			continue
		}

		ptrs := make([]*inventory.BatchLine, len(eligible))
		for i := range eligible {
			ptrs[i] = &eligible[i]
		}
		records, err := inventory.ApplyAllocation(doc.ID, line.ID, plan, ptrs)
		if err != nil {
			return err
		}

		touched := make([]*inventory.BatchLine, 0, len(plan.Takes))
		for _, take := range plan.Takes {
			for _, p := range ptrs {
				if p.ID == take.BatchLineID {
					touched = append(touched, p)
					break
				}
			}
		}
		if err := repos.BatchLines().SaveAll(ctx, touched); err != nil {
			return err
		}
		if err := repos.Allocations().Create(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// applyDeductions computes every active deduction per line for bearing
// kinds, persists the audit rows and sets the document totals.
// Deduction-free kinds force zero totals regardless of input.
func (s *FinalizeService) applyDeductions(ctx context.Context, repos TransactionalRepositories, doc *settlement.SaleDocument) error {
	if !doc.BearsDeductions() {
		return doc.ApplyDeductions(nil)
	}

	defs, err := repos.Definitions().FindActive(ctx)
	if err != nil {
		return err
	}

	applied := make([]settlement.AppliedDeduction, 0, len(defs))
	computations := make([]*deduction.Computation, 0)
	for i := range defs {
		def := &defs[i]
		total := decimal.Zero
		for _, line := range doc.Lines {
			amount, err := deduction.Compute(def, line.NetWeight, line.ContainerCount, line.Amount)
			if err != nil {
				return err
			}
			if amount.IsZero() {
				continue
			}
			computations = append(computations, deduction.NewComputation(def, doc.ID, line.ID, line.Amount, amount))
			total = total.Add(amount)
		}
		if total.IsZero() {
			continue
		}
		applied = append(applied, settlement.AppliedDeduction{
			Code:          def.Code,
			Name:          def.Name,
			Amount:        total,
			ProducerBorne: def.ProducerBorne,
			BuyerBorne:    def.BuyerBorne,
		})
	}

	if len(computations) > 0 {
		if err := repos.Computations().Create(ctx, computations); err != nil {
			return err
		}
	}
	return doc.ApplyDeductions(applied)
}

// postLedgerEntries debits the buyer for the grand total and, for
// deduction-bearing kinds, credits the producer with the proceeds. Both
// balances move atomically with their entries.
func (s *FinalizeService) postLedgerEntries(ctx context.Context, repos TransactionalRepositories, doc *settlement.SaleDocument) error {
	entries := make([]*partner.LedgerEntry, 0, 2)

	if doc.GrandTotal.IsPositive() {
		buyer, err := repos.Accounts().FindByID(ctx, doc.BuyerID)
		if err != nil {
			return err
		}
		entry, err := partner.NewLedgerEntry(buyer.ID, partner.EntryKindDebit, doc.GrandTotal, &doc.ID,
			"Sale document "+doc.Number)
		if err != nil {
			return err
		}
		if err := buyer.ApplyEntry(entry); err != nil {
			return err
		}
		if err := repos.Accounts().Save(ctx, buyer); err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	if doc.BearsDeductions() && doc.ProducerProceeds.IsPositive() {
		producer, err := repos.Accounts().FindByID(ctx, doc.ProducerID)
		if err != nil {
			return err
		}
		entry, err := partner.NewLedgerEntry(producer.ID, partner.EntryKindCredit, doc.ProducerProceeds, &doc.ID,
			"Proceeds for document "+doc.Number)
		if err != nil {
			return err
		}
		if err := producer.ApplyEntry(entry); err != nil {
			return err
		}
		if err := repos.Accounts().Save(ctx, producer); err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil
	}
	return repos.Entries().Create(ctx, entries)
}
