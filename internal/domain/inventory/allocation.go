package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationRecord links a sale line to one batch line with the quantity
// drawn from it. Records are append-only: corrections require a new
// offsetting allocation, never an edit.
type AllocationRecord struct {
	shared.BaseEntity
	DocumentID      uuid.UUID
	SaleLineID      uuid.UUID
	BatchLineID     uuid.UUID
	WeightTaken     decimal.Decimal
	ContainersTaken int64
}

// AllocationTake is one planned draw against a batch line
type AllocationTake struct {
	BatchLineID     uuid.UUID
	WeightTaken     decimal.Decimal
	ContainersTaken int64
	LineExhausted   bool
}

// AllocationPlan is the outcome of planning a FIFO allocation.
// Planning is pure: no batch line is mutated until the plan is applied.
type AllocationPlan struct {
	ProductID   uuid.UUID
	Takes       []AllocationTake
	TotalWeight decimal.Decimal
}

// IsEmpty returns true when nothing needs to be drawn
func (p *AllocationPlan) IsEmpty() bool {
	return len(p.Takes) == 0
}

// PlanAllocation selects batch lines to satisfy the required net weight for
// a product, strictly first-in-first-out: receipt date ascending, ties
// broken by arrival sequence. An optional source agent filter restricts the
// eligible lines. The operation is all-or-nothing: if the eligible remaining
// stock is below the requirement no line is touched and an insufficient
// stock error naming the product is returned. A zero requirement yields an
// empty plan.
func PlanAllocation(
	productID uuid.UUID,
	productName string,
	required decimal.Decimal,
	agentFilter *uuid.UUID,
	lines []BatchLine,
) (*AllocationPlan, error) {
	if required.IsNegative() {
		return nil, shared.NewInvalidInputError("required quantity", "cannot be negative")
	}

	plan := &AllocationPlan{
		ProductID:   productID,
		Takes:       make([]AllocationTake, 0),
		TotalWeight: decimal.Zero,
	}
	if required.IsZero() {
		return plan, nil
	}

	eligible := make([]BatchLine, 0, len(lines))
	available := decimal.Zero
	for _, line := range lines {
		if line.ProductID != productID || !line.HasStock() {
			continue
		}
		if agentFilter != nil && line.AgentID != *agentFilter {
			continue
		}
		eligible = append(eligible, line)
		available = available.Add(line.RemainingWeight)
	}

	if available.LessThan(required) {
		return nil, shared.NewInsufficientStockError(productName, required.String(), available.String())
	}

	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].ReceiptDate.Equal(eligible[j].ReceiptDate) {
			return eligible[i].ReceiptDate.Before(eligible[j].ReceiptDate)
		}
		return eligible[i].Sequence < eligible[j].Sequence
	})

	outstanding := required
	for _, line := range eligible {
		if outstanding.IsZero() {
			break
		}
		take := decimal.Min(outstanding, line.RemainingWeight)
		exhausted := take.Equal(line.RemainingWeight)

		containers := line.RemainingContainers
		if !exhausted && line.RemainingWeight.GreaterThan(decimal.Zero) {
			// partial draw releases containers pro rata
			containers = take.Div(line.RemainingWeight).
				Mul(decimal.NewFromInt(line.RemainingContainers)).
				Floor().IntPart()
		}

		plan.Takes = append(plan.Takes, AllocationTake{
			BatchLineID:     line.ID,
			WeightTaken:     take,
			ContainersTaken: containers,
			LineExhausted:   exhausted,
		})
		plan.TotalWeight = plan.TotalWeight.Add(take)
		outstanding = outstanding.Sub(take)
	}

	return plan, nil
}

// ApplyAllocation decrements the remaining quantities on each touched batch
// line and produces one append-only AllocationRecord per draw. The lines
// passed in must include every line the plan references.
func ApplyAllocation(documentID, saleLineID uuid.UUID, plan *AllocationPlan, lines []*BatchLine) ([]*AllocationRecord, error) {
	if plan == nil {
		return nil, shared.NewInvalidInputError("allocation plan", "cannot be nil")
	}

	byID := make(map[uuid.UUID]*BatchLine, len(lines))
	for _, line := range lines {
		byID[line.ID] = line
	}

	records := make([]*AllocationRecord, 0, len(plan.Takes))
	for _, take := range plan.Takes {
		line, ok := byID[take.BatchLineID]
		if !ok {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code,
				"Batch line not found: "+take.BatchLineID.String())
		}
		if err := line.take(take.WeightTaken, take.ContainersTaken); err != nil {
			return nil, err
		}
		records = append(records, &AllocationRecord{
			BaseEntity:      shared.NewBaseEntity(),
			DocumentID:      documentID,
			SaleLineID:      saleLineID,
			BatchLineID:     take.BatchLineID,
			WeightTaken:     take.WeightTaken,
			ContainersTaken: take.ContainersTaken,
		})
	}
	return records, nil
}
