package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DocumentKind classifies a sale document. Wholesale and retail sales bear
// statutory deductions; distribution to branches and internal transfers
// move goods without any deduction.
type DocumentKind string

const (
	KindWholesale        DocumentKind = "WHOLESALE"
	KindRetail           DocumentKind = "RETAIL"
	KindDistribution     DocumentKind = "DISTRIBUTION"
	KindInternalTransfer DocumentKind = "INTERNAL_TRANSFER"
)

// IsValid checks if the kind is a valid DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindWholesale, KindRetail, KindDistribution, KindInternalTransfer:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// BearsDeductions reports whether documents of this kind carry statutory
// and commercial deductions
func (k DocumentKind) BearsDeductions() bool {
	return k == KindWholesale || k == KindRetail
}

// DocumentStatus represents the lifecycle status of a sale document
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusConfirmed DocumentStatus = "CONFIRMED"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// SaleLine is one product line of a sale document
type SaleLine struct {
	ID             uuid.UUID
	DocumentID     uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	SourceAgentID  *uuid.UUID // restricts lot allocation to one agent's deliveries
	NetWeight      decimal.Decimal
	ContainerType  string
	ContainerCount int64
	UnitPrice      decimal.Decimal
	Amount         decimal.Decimal // NetWeight * UnitPrice
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSaleLine creates a new sale line with its amount derived from
// weight and unit price
func NewSaleLine(documentID, productID uuid.UUID, productName string, sourceAgentID *uuid.UUID, netWeight decimal.Decimal, containerType string, containerCount int64, unitPrice decimal.Decimal) (*SaleLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewInvalidInputError("product", "cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewInvalidInputError("product name", "cannot be empty")
	}
	if netWeight.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidInputError("net weight", "must be positive")
	}
	if containerCount < 0 {
		return nil, shared.NewInvalidInputError("container count", "cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewInvalidInputError("unit price", "cannot be negative")
	}

	now := time.Now()
	return &SaleLine{
		ID:             uuid.New(),
		DocumentID:     documentID,
		ProductID:      productID,
		ProductName:    productName,
		SourceAgentID:  sourceAgentID,
		NetWeight:      netWeight,
		ContainerType:  containerType,
		ContainerCount: containerCount,
		UnitPrice:      unitPrice,
		Amount:         netWeight.Mul(unitPrice).Round(2),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateQuantity updates the line weight and recalculates the amount
func (l *SaleLine) UpdateQuantity(netWeight decimal.Decimal, containerCount int64) error {
	if netWeight.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("net weight", "must be positive")
	}
	if containerCount < 0 {
		return shared.NewInvalidInputError("container count", "cannot be negative")
	}

	l.NetWeight = netWeight
	l.ContainerCount = containerCount
	l.Amount = netWeight.Mul(l.UnitPrice).Round(2)
	l.UpdatedAt = time.Now()
	return nil
}

// AppliedDeduction is one deduction total carried on the document, grouped
// by deduction code. The per-line audit rows live in the deduction context;
// the document only keeps the summed outcome it needs for its totals.
type AppliedDeduction struct {
	Code          string
	Name          string
	Amount        decimal.Decimal
	ProducerBorne bool
	BuyerBorne    bool
}

// SaleDocument is the aggregate root of one sale, distribution or transfer.
// Totals are never authoritative on their own: Recalculate derives every
// total from line data and applied deductions, and finalization always
// recomputes before posting.
type SaleDocument struct {
	shared.BaseAggregateRoot
	Number       string `gorm:"uniqueIndex"`
	Kind         DocumentKind
	BuyerID      uuid.UUID
	BuyerName    string
	ProducerID   uuid.UUID // the commission agent's principal on bearing kinds
	ProducerName string
	Lines        []SaleLine `gorm:"foreignKey:DocumentID"`

	FreightCharge decimal.Decimal
	LoadingCharge decimal.Decimal

	Deductions             []AppliedDeduction `gorm:"serializer:json"`
	ProducerDeductionTotal decimal.Decimal
	BuyerDeductionTotal    decimal.Decimal

	LinesTotal       decimal.Decimal
	GrandTotal       decimal.Decimal // buyer-facing: lines + ancillary + buyer-borne deductions
	ProducerProceeds decimal.Decimal // lines - producer-borne deductions

	Status       DocumentStatus
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// NewSaleDocument creates a new draft sale document
func NewSaleDocument(number string, kind DocumentKind, buyerID uuid.UUID, buyerName string, producerID uuid.UUID, producerName string) (*SaleDocument, error) {
	if number == "" {
		return nil, shared.NewInvalidInputError("document number", "cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewInvalidInputError("document kind", "unknown kind "+string(kind))
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewInvalidInputError("buyer", "cannot be empty")
	}
	if buyerName == "" {
		return nil, shared.NewInvalidInputError("buyer name", "cannot be empty")
	}
	if kind.BearsDeductions() {
		if producerID == uuid.Nil {
			return nil, shared.NewInvalidInputError("producer", "required for deduction-bearing documents")
		}
		if producerName == "" {
			return nil, shared.NewInvalidInputError("producer name", "required for deduction-bearing documents")
		}
	}

	return &SaleDocument{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		Number:                 number,
		Kind:                   kind,
		BuyerID:                buyerID,
		BuyerName:              buyerName,
		ProducerID:             producerID,
		ProducerName:           producerName,
		Lines:                  make([]SaleLine, 0),
		FreightCharge:          decimal.Zero,
		LoadingCharge:          decimal.Zero,
		Deductions:             make([]AppliedDeduction, 0),
		ProducerDeductionTotal: decimal.Zero,
		BuyerDeductionTotal:    decimal.Zero,
		LinesTotal:             decimal.Zero,
		GrandTotal:             decimal.Zero,
		ProducerProceeds:       decimal.Zero,
		Status:                 StatusDraft,
	}, nil
}

// BearsDeductions reports whether this document carries deductions
func (d *SaleDocument) BearsDeductions() bool {
	return d.Kind.BearsDeductions()
}

// IsDraft returns true if the document is still in draft status
func (d *SaleDocument) IsDraft() bool {
	return d.Status == StatusDraft
}

// AddLine adds a new line to the document. Only allowed in draft status.
func (d *SaleDocument) AddLine(productID uuid.UUID, productName string, sourceAgentID *uuid.UUID, netWeight decimal.Decimal, containerType string, containerCount int64, unitPrice decimal.Decimal) (*SaleLine, error) {
	if !d.IsDraft() {
		return nil, shared.NewDomainError(shared.ErrDocumentNotInDraft.Code,
			fmt.Sprintf("Cannot add lines to document %s in %s status", d.Number, d.Status))
	}

	line, err := NewSaleLine(d.ID, productID, productName, sourceAgentID, netWeight, containerType, containerCount, unitPrice)
	if err != nil {
		return nil, err
	}

	d.Lines = append(d.Lines, *line)
	d.Recalculate()
	return line, nil
}

// RemoveLine removes a line from the document. Only allowed in draft status.
func (d *SaleDocument) RemoveLine(lineID uuid.UUID) error {
	if !d.IsDraft() {
		return shared.NewDomainError(shared.ErrDocumentNotInDraft.Code,
			fmt.Sprintf("Cannot remove lines from document %s in %s status", d.Number, d.Status))
	}

	for idx, line := range d.Lines {
		if line.ID == lineID {
			d.Lines = append(d.Lines[:idx], d.Lines[idx+1:]...)
			d.Recalculate()
			return nil
		}
	}
	return shared.NewDomainError(shared.ErrNotFound.Code, "Document line not found")
}

// SetAncillaryCharges sets the freight and loading charges added to the
// buyer-facing grand total. Only allowed in draft status.
func (d *SaleDocument) SetAncillaryCharges(freight, loading decimal.Decimal) error {
	if !d.IsDraft() {
		return shared.NewDomainError(shared.ErrDocumentNotInDraft.Code,
			fmt.Sprintf("Cannot change charges on document %s in %s status", d.Number, d.Status))
	}
	if freight.IsNegative() {
		return shared.NewInvalidInputError("freight charge", "cannot be negative")
	}
	if loading.IsNegative() {
		return shared.NewInvalidInputError("loading charge", "cannot be negative")
	}

	d.FreightCharge = freight
	d.LoadingCharge = loading
	d.Recalculate()
	return nil
}

// ApplyDeductions replaces the document's applied deductions and recomputes
// totals. For deduction-free kinds the input is discarded entirely; the
// document stays at zero deductions no matter what is passed in.
func (d *SaleDocument) ApplyDeductions(applied []AppliedDeduction) error {
	if !d.IsDraft() {
		return shared.NewDomainError(shared.ErrDocumentNotInDraft.Code,
			fmt.Sprintf("Cannot apply deductions to document %s in %s status", d.Number, d.Status))
	}
	for _, a := range applied {
		if a.Amount.IsNegative() {
			return shared.NewInvalidInputError("deduction amount", "cannot be negative for "+a.Code)
		}
	}

	if !d.BearsDeductions() {
		d.Deductions = make([]AppliedDeduction, 0)
	} else {
		d.Deductions = applied
	}
	d.Recalculate()
	return nil
}

// Recalculate derives every document total from line data and applied
// deductions. It is deterministic and idempotent; finalization calls it
// before posting, and reconciliation may call it again at any time to
// verify the stored totals.
func (d *SaleDocument) Recalculate() {
	linesTotal := decimal.Zero
	for _, line := range d.Lines {
		linesTotal = linesTotal.Add(line.Amount)
	}
	d.LinesTotal = linesTotal

	if !d.BearsDeductions() {
		// Distribution and internal transfer never carry deductions,
		// even when lines arrive with pre-populated values.
		d.Deductions = make([]AppliedDeduction, 0)
	}

	producerTotal := decimal.Zero
	buyerTotal := decimal.Zero
	for _, a := range d.Deductions {
		if a.ProducerBorne {
			producerTotal = producerTotal.Add(a.Amount)
		}
		if a.BuyerBorne {
			buyerTotal = buyerTotal.Add(a.Amount)
		}
	}
	d.ProducerDeductionTotal = producerTotal
	d.BuyerDeductionTotal = buyerTotal

	d.GrandTotal = d.LinesTotal.Add(d.FreightCharge).Add(d.LoadingCharge).Add(d.BuyerDeductionTotal)
	d.ProducerProceeds = d.LinesTotal.Sub(d.ProducerDeductionTotal)
}

// DeductionTotal returns the applied amount for one deduction code,
// zero when the code was not applied
func (d *SaleDocument) DeductionTotal(code string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range d.Deductions {
		if a.Code == code {
			total = total.Add(a.Amount)
		}
	}
	return total
}

// Confirm transitions the document from draft to confirmed. Totals are
// recomputed one last time so the confirmed state never depends on stale
// stored values.
func (d *SaleDocument) Confirm() error {
	if !d.IsDraft() {
		return shared.NewDomainError(shared.ErrDocumentNotInDraft.Code,
			fmt.Sprintf("Cannot finalize document %s in %s status", d.Number, d.Status))
	}
	if len(d.Lines) == 0 {
		return shared.NewInvalidInputError("document lines", "cannot finalize a document without lines")
	}

	d.Recalculate()

	now := time.Now()
	d.Status = StatusConfirmed
	d.ConfirmedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDocumentConfirmedEvent(d))
	return nil
}

// Cancel cancels a draft document. Confirmed documents are corrected with
// offsetting documents, never cancelled.
func (d *SaleDocument) Cancel(reason string) error {
	if !d.IsDraft() {
		return shared.NewDomainError(shared.ErrDocumentNotInDraft.Code,
			fmt.Sprintf("Cannot cancel document %s in %s status", d.Number, d.Status))
	}
	if reason == "" {
		return shared.NewInvalidInputError("cancel reason", "cannot be empty")
	}

	now := time.Now()
	d.Status = StatusCancelled
	d.CancelledAt = &now
	d.CancelReason = reason
	d.UpdatedAt = now
	return nil
}

// GetLine returns a line by its ID, nil when absent
func (d *SaleDocument) GetLine(lineID uuid.UUID) *SaleLine {
	for idx := range d.Lines {
		if d.Lines[idx].ID == lineID {
			return &d.Lines[idx]
		}
	}
	return nil
}

// TotalWeight returns the sum of all line net weights
func (d *SaleDocument) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.NetWeight)
	}
	return total
}

// TotalContainers returns the sum of all line container counts
func (d *SaleDocument) TotalContainers() int64 {
	var total int64
	for _, line := range d.Lines {
		total += line.ContainerCount
	}
	return total
}
