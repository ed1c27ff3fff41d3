package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/deduction"
	"github.com/halmarket/backend/internal/domain/inventory"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/settlement"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/halmarket/backend/internal/infrastructure/locking"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memDocumentRepo struct {
	docs map[uuid.UUID]*settlement.SaleDocument
}

func (r *memDocumentRepo) FindByID(_ context.Context, id uuid.UUID) (*settlement.SaleDocument, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}
func (r *memDocumentRepo) FindByNumber(_ context.Context, number string) (*settlement.SaleDocument, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (r *memDocumentRepo) FindByStatus(_ context.Context, _ settlement.DocumentStatus, _ shared.Filter) (*shared.Paginated[settlement.SaleDocument], error) {
	return nil, nil
}
func (r *memDocumentRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[settlement.SaleDocument], error) {
	return nil, nil
}
func (r *memDocumentRepo) Save(_ context.Context, doc *settlement.SaleDocument) error {
	r.docs[doc.ID] = doc
	return nil
}

type memBatchLineRepo struct {
	lines map[uuid.UUID]inventory.BatchLine
}

func (r *memBatchLineRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.BatchLine, error) {
	line, ok := r.lines[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &line, nil
}
func (r *memBatchLineRepo) FindEligible(_ context.Context, productID uuid.UUID, agentID *uuid.UUID) ([]inventory.BatchLine, error) {
	var out []inventory.BatchLine
	for _, line := range r.lines {
		if line.ProductID != productID || !line.HasStock() {
			continue
		}
		if agentID != nil && line.AgentID != *agentID {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}
func (r *memBatchLineRepo) FindByDelivery(_ context.Context, _ uuid.UUID) ([]inventory.BatchLine, error) {
	return nil, nil
}
func (r *memBatchLineRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.BatchLine, error) {
	return nil, nil
}
func (r *memBatchLineRepo) Save(_ context.Context, line *inventory.BatchLine) error {
	r.lines[line.ID] = *line
	return nil
}
func (r *memBatchLineRepo) SaveAll(_ context.Context, lines []*inventory.BatchLine) error {
	for _, line := range lines {
		r.lines[line.ID] = *line
	}
	return nil
}

type memAllocationRepo struct {
	records []*inventory.AllocationRecord
}

func (r *memAllocationRepo) Create(_ context.Context, records []*inventory.AllocationRecord) error {
	r.records = append(r.records, records...)
	return nil
}
func (r *memAllocationRepo) FindByBatchLine(_ context.Context, batchLineID uuid.UUID) ([]inventory.AllocationRecord, error) {
	var out []inventory.AllocationRecord
	for _, rec := range r.records {
		if rec.BatchLineID == batchLineID {
			out = append(out, *rec)
		}
	}
	return out, nil
}
func (r *memAllocationRepo) FindByDocument(_ context.Context, documentID uuid.UUID) ([]inventory.AllocationRecord, error) {
	var out []inventory.AllocationRecord
	for _, rec := range r.records {
		if rec.DocumentID == documentID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type memDefinitionRepo struct {
	defs []deduction.Definition
}

func (r *memDefinitionRepo) FindByID(_ context.Context, id uuid.UUID) (*deduction.Definition, error) {
	for i := range r.defs {
		if r.defs[i].ID == id {
			return &r.defs[i], nil
		}
	}
	return nil, shared.ErrNotFound
}
func (r *memDefinitionRepo) FindByCode(_ context.Context, code string) (*deduction.Definition, error) {
	for i := range r.defs {
		if r.defs[i].Code == code {
			return &r.defs[i], nil
		}
	}
	return nil, shared.ErrNotFound
}
func (r *memDefinitionRepo) FindActive(_ context.Context) ([]deduction.Definition, error) {
	var out []deduction.Definition
	for _, def := range r.defs {
		if def.Active {
			out = append(out, def)
		}
	}
	return out, nil
}
func (r *memDefinitionRepo) FindAll(_ context.Context) ([]deduction.Definition, error) {
	return r.defs, nil
}
func (r *memDefinitionRepo) Save(_ context.Context, def *deduction.Definition) error {
	r.defs = append(r.defs, *def)
	return nil
}

type memComputationRepo struct {
	rows []*deduction.Computation
}

func (r *memComputationRepo) Create(_ context.Context, rows []*deduction.Computation) error {
	r.rows = append(r.rows, rows...)
	return nil
}
func (r *memComputationRepo) FindByDocument(_ context.Context, documentID uuid.UUID) ([]deduction.Computation, error) {
	var out []deduction.Computation
	for _, row := range r.rows {
		if row.DocumentID == documentID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type memAccountRepo struct {
	accounts map[uuid.UUID]*partner.PartyAccount
}

func (r *memAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.PartyAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}
func (r *memAccountRepo) FindByCode(_ context.Context, _ string) (*partner.PartyAccount, error) {
	return nil, shared.ErrNotFound
}
func (r *memAccountRepo) FindByType(_ context.Context, _ partner.PartyType, _ shared.Filter) (*shared.Paginated[partner.PartyAccount], error) {
	return nil, nil
}
func (r *memAccountRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[partner.PartyAccount], error) {
	return nil, nil
}
func (r *memAccountRepo) Save(_ context.Context, account *partner.PartyAccount) error {
	r.accounts[account.ID] = account
	return nil
}

type memEntryRepo struct {
	entries []*partner.LedgerEntry
}

func (r *memEntryRepo) Create(_ context.Context, entries []*partner.LedgerEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}
func (r *memEntryRepo) FindByParty(_ context.Context, _ uuid.UUID, _ shared.Filter) (*shared.Paginated[partner.LedgerEntry], error) {
	return nil, nil
}
func (r *memEntryRepo) FindByDocument(_ context.Context, documentID uuid.UUID) ([]partner.LedgerEntry, error) {
	var out []partner.LedgerEntry
	for _, e := range r.entries {
		if e.DocumentID != nil && *e.DocumentID == documentID {
			out = append(out, *e)
		}
	}
	return out, nil
}
func (r *memEntryRepo) SumByParty(_ context.Context, partyID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.PartyID == partyID {
			sum = sum.Add(e.SignedAmount())
		}
	}
	return sum, nil
}

type finalizeFixture struct {
	service    *FinalizeService
	scope      *NoOpTransactionScope
	docs       *memDocumentRepo
	batchLines *memBatchLineRepo
	allocs     *memAllocationRepo
	defs       *memDefinitionRepo
	comps      *memComputationRepo
	accounts   *memAccountRepo
	entries    *memEntryRepo
	buyer      *partner.PartyAccount
	producer   *partner.PartyAccount
}

func newFinalizeFixture(t *testing.T) *finalizeFixture {
	t.Helper()

	f := &finalizeFixture{
		docs:       &memDocumentRepo{docs: make(map[uuid.UUID]*settlement.SaleDocument)},
		batchLines: &memBatchLineRepo{lines: make(map[uuid.UUID]inventory.BatchLine)},
		allocs:     &memAllocationRepo{},
		defs:       &memDefinitionRepo{},
		comps:      &memComputationRepo{},
		accounts:   &memAccountRepo{accounts: make(map[uuid.UUID]*partner.PartyAccount)},
		entries:    &memEntryRepo{},
	}
	f.scope = &NoOpTransactionScope{
		DocumentRepo:    f.docs,
		BatchLineRepo:   f.batchLines,
		AllocationRepo:  f.allocs,
		DefinitionRepo:  f.defs,
		ComputationRepo: f.comps,
		AccountRepo:     f.accounts,
		EntryRepo:       f.entries,
	}
	f.service = NewFinalizeService(f.scope, locking.NewEntityLockManager(), zap.NewNop())

	var err error
	f.buyer, err = partner.NewPartyAccount("CARI-001", "Yıldız Gıda", partner.PartyTypeBuyer)
	require.NoError(t, err)
	f.producer, err = partner.NewPartyAccount("CARI-002", "Mehmet Üretici", partner.PartyTypeProducer)
	require.NoError(t, err)
	f.accounts.accounts[f.buyer.ID] = f.buyer
	f.accounts.accounts[f.producer.ID] = f.producer
	return f
}

func (f *finalizeFixture) addStock(t *testing.T, productID uuid.UUID, productName string, weight float64, containers int64, daysAgo int) *inventory.BatchLine {
	t.Helper()
	line, err := inventory.NewBatchLine(uuid.New(), productID, uuid.New(), productName,
		time.Now().AddDate(0, 0, -daysAgo), "KASA",
		decimal.NewFromFloat(weight), decimal.Zero, containers, nil)
	require.NoError(t, err)
	require.NoError(t, f.batchLines.Save(context.Background(), line))
	return line
}

func (f *finalizeFixture) addDefinition(t *testing.T, code string, kind deduction.Kind, rate, fixed float64) {
	t.Helper()
	def, err := deduction.NewDefinition(code, code, kind,
		decimal.NewFromFloat(rate), decimal.NewFromFloat(fixed),
		decimal.Zero, decimal.Zero, true, false)
	require.NoError(t, err)
	require.NoError(t, f.defs.Save(context.Background(), def))
}

func (f *finalizeFixture) newDraft(t *testing.T, kind settlement.DocumentKind, productID uuid.UUID, productName string, weight, price float64) *settlement.SaleDocument {
	t.Helper()
	producerID := f.producer.ID
	producerName := f.producer.Name
	if !kind.BearsDeductions() {
		producerID = uuid.Nil
		producerName = ""
	}
	doc, err := settlement.NewSaleDocument("SAT-2026-0001", kind, f.buyer.ID, f.buyer.Name, producerID, producerName)
	require.NoError(t, err)
	_, err = doc.AddLine(productID, productName, nil, decimal.NewFromFloat(weight), "KASA", 40, decimal.NewFromFloat(price))
	require.NoError(t, err)
	require.NoError(t, f.docs.Save(context.Background(), doc))
	return doc
}

func TestFinalizeWholesale(t *testing.T) {
	f := newFinalizeFixture(t)
	productID := uuid.New()
	f.addStock(t, productID, "Domates", 600, 50, 2)
	f.addDefinition(t, "RUSUM", deduction.KindPercentage, 1, 0)
	f.addDefinition(t, "KOMISYON", deduction.KindPercentage, 8, 0)
	f.addDefinition(t, "STOPAJ", deduction.KindFlat, 0, 200)

	doc := f.newDraft(t, settlement.KindWholesale, productID, "Domates", 500, 20) // 10000

	resp, err := f.service.Finalize(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, doc.DeductionTotal("RUSUM").Equal(decimal.NewFromInt(100)))
	assert.True(t, doc.DeductionTotal("KOMISYON").Equal(decimal.NewFromInt(800)))
	assert.True(t, doc.DeductionTotal("STOPAJ").Equal(decimal.NewFromInt(200)))
	assert.True(t, resp.ProducerProceeds.Equal(decimal.NewFromInt(8900)))

	// stock drawn FIFO, audit rows written
	records, err := f.allocs.FindByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].WeightTaken.Equal(decimal.NewFromInt(500)))
	assert.Len(t, f.comps.rows, 3)

	// ledger: buyer debited grand total, producer credited proceeds
	assert.True(t, f.buyer.Balance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, f.producer.Balance.Equal(decimal.NewFromInt(-8900)))

	buyerSum, err := f.entries.SumByParty(context.Background(), f.buyer.ID)
	require.NoError(t, err)
	assert.True(t, f.buyer.Balance.Equal(buyerSum), "denormalized balance must equal replay sum")
}

func TestFinalizeDistributionForcesZeroDeductions(t *testing.T) {
	f := newFinalizeFixture(t)
	productID := uuid.New()
	f.addStock(t, productID, "Domates", 600, 50, 2)
	f.addDefinition(t, "RUSUM", deduction.KindPercentage, 1, 0)
	f.addDefinition(t, "KOMISYON", deduction.KindPercentage, 8, 0)
	f.addDefinition(t, "STOPAJ", deduction.KindFlat, 0, 200)

	doc := f.newDraft(t, settlement.KindDistribution, productID, "Domates", 500, 20)

	resp, err := f.service.Finalize(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.True(t, resp.ProducerDeductionTotal.IsZero())
	assert.True(t, resp.BuyerDeductionTotal.IsZero())
	assert.Empty(t, resp.Deductions)
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(10000)))
	assert.Empty(t, f.comps.rows, "deduction-free kinds write no audit rows")

	// buyer still debited; no producer credit for deduction-free kinds
	assert.True(t, f.buyer.Balance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, f.producer.Balance.IsZero())
}

func TestFinalizeDrawsOldestStockFirst(t *testing.T) {
	f := newFinalizeFixture(t)
	productID := uuid.New()
	older := f.addStock(t, productID, "Domates", 500, 40, 5)
	newer := f.addStock(t, productID, "Domates", 500, 40, 1)

	doc := f.newDraft(t, settlement.KindWholesale, productID, "Domates", 400, 20)

	_, err := f.service.Finalize(context.Background(), doc.ID)
	require.NoError(t, err)

	olderSaved, err := f.batchLines.FindByID(context.Background(), older.ID)
	require.NoError(t, err)
	newerSaved, err := f.batchLines.FindByID(context.Background(), newer.ID)
	require.NoError(t, err)

	assert.True(t, olderSaved.RemainingWeight.Equal(decimal.NewFromInt(100)))
	assert.True(t, newerSaved.RemainingWeight.Equal(decimal.NewFromInt(500)), "newer lot must stay untouched")
}

func TestFinalizeInsufficientStock(t *testing.T) {
	f := newFinalizeFixture(t)
	productID := uuid.New()
	line := f.addStock(t, productID, "Domates", 100, 10, 1)

	doc := f.newDraft(t, settlement.KindWholesale, productID, "Domates", 500, 20)

	_, err := f.service.Finalize(context.Background(), doc.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Domates")

	// no partial state: stock, ledger and document untouched
	saved, findErr := f.batchLines.FindByID(context.Background(), line.ID)
	require.NoError(t, findErr)
	assert.True(t, saved.RemainingWeight.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, f.entries.entries)
	assert.True(t, doc.IsDraft())
	assert.True(t, f.buyer.Balance.IsZero())
}

// lateStockBatchLineRepo hides one batch line from the first FindEligible
// call and surfaces it afterwards, so the lock snapshot misses a line the
// transactional read then returns.
type lateStockBatchLineRepo struct {
	*memBatchLineRepo
	late  *inventory.BatchLine
	calls int
}

func (r *lateStockBatchLineRepo) FindEligible(ctx context.Context, productID uuid.UUID, agentID *uuid.UUID) ([]inventory.BatchLine, error) {
	out, err := r.memBatchLineRepo.FindEligible(ctx, productID, agentID)
	r.calls++
	if r.calls == 1 && r.late != nil {
		r.memBatchLineRepo.lines[r.late.ID] = *r.late
		r.late = nil
	}
	return out, err
}

func TestFinalizeRetriesWhenStockArrivesAfterLockSnapshot(t *testing.T) {
	f := newFinalizeFixture(t)
	productID := uuid.New()

	late, err := inventory.NewBatchLine(uuid.New(), productID, uuid.New(), "Domates",
		time.Now().AddDate(0, 0, -1), "KASA",
		decimal.NewFromInt(600), decimal.Zero, 50, nil)
	require.NoError(t, err)

	lines := &lateStockBatchLineRepo{memBatchLineRepo: f.batchLines, late: late}
	f.scope.BatchLineRepo = lines

	doc := f.newDraft(t, settlement.KindWholesale, productID, "Domates", 500, 20)

	resp, err := f.service.Finalize(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, 4, lines.calls, "finalize must re-snapshot and retry once")

	// a line never mutated without its lock held also means no double
	// draw: whatever left the lot shows up in the allocation records
	saved, err := f.batchLines.FindByID(context.Background(), late.ID)
	require.NoError(t, err)
	assert.True(t, saved.RemainingWeight.Equal(decimal.NewFromInt(100)))

	records, err := f.allocs.FindByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	taken := decimal.Zero
	for _, rec := range records {
		taken = taken.Add(rec.WeightTaken)
	}
	assert.True(t, late.NetWeight.Sub(saved.RemainingWeight).Equal(taken),
		"weight drawn from the lot must equal the recorded allocations")
}

type capturingEnqueuer struct {
	docs []*settlement.SaleDocument
}

func (e *capturingEnqueuer) EnqueueForDocument(_ context.Context, doc *settlement.SaleDocument) error {
	e.docs = append(e.docs, doc)
	return nil
}

func TestFinalizeDrainsConfirmedEventIntoQueue(t *testing.T) {
	f := newFinalizeFixture(t)
	enqueuer := &capturingEnqueuer{}
	f.service.SetNotificationEnqueuer(enqueuer)

	productID := uuid.New()
	f.addStock(t, productID, "Domates", 600, 50, 2)
	doc := f.newDraft(t, settlement.KindWholesale, productID, "Domates", 500, 20)

	_, err := f.service.Finalize(context.Background(), doc.ID)
	require.NoError(t, err)

	require.Len(t, enqueuer.docs, 1)
	assert.Equal(t, doc.ID, enqueuer.docs[0].ID)
	assert.Empty(t, doc.GetDomainEvents(), "confirm event must be consumed, not left pending")
}

func TestFinalizeTwiceFails(t *testing.T) {
	f := newFinalizeFixture(t)
	productID := uuid.New()
	f.addStock(t, productID, "Domates", 600, 50, 2)

	doc := f.newDraft(t, settlement.KindWholesale, productID, "Domates", 500, 20)

	_, err := f.service.Finalize(context.Background(), doc.ID)
	require.NoError(t, err)

	_, err = f.service.Finalize(context.Background(), doc.ID)
	assert.ErrorIs(t, err, shared.ErrDocumentNotInDraft)
}
