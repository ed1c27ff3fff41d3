package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLine(t *testing.T, productID, agentID uuid.UUID, receipt time.Time, seq int64, gross, tare float64, containers int64) BatchLine {
	t.Helper()
	line, err := NewBatchLine(
		uuid.New(), productID, agentID, "Domates",
		receipt, "KASA",
		decimal.NewFromFloat(gross), decimal.NewFromFloat(tare),
		containers, nil,
	)
	require.NoError(t, err)
	line.Sequence = seq
	return *line
}

func TestNewBatchLine(t *testing.T) {
	productID := uuid.New()
	agentID := uuid.New()

	t.Run("derives net weight from gross minus tare", func(t *testing.T) {
		line, err := NewBatchLine(uuid.New(), productID, agentID, "Domates", time.Now(), "KASA",
			decimal.NewFromInt(120), decimal.NewFromInt(20), 10, nil)
		require.NoError(t, err)
		assert.True(t, line.NetWeight.Equal(decimal.NewFromInt(100)))
		assert.True(t, line.RemainingWeight.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(10), line.RemainingContainers)
	})

	t.Run("rejects tare above gross", func(t *testing.T) {
		_, err := NewBatchLine(uuid.New(), productID, agentID, "Domates", time.Now(), "KASA",
			decimal.NewFromInt(20), decimal.NewFromInt(30), 2, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects empty product", func(t *testing.T) {
		_, err := NewBatchLine(uuid.New(), uuid.Nil, agentID, "Domates", time.Now(), "KASA",
			decimal.NewFromInt(20), decimal.NewFromInt(5), 2, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		price := decimal.NewFromInt(-1)
		_, err := NewBatchLine(uuid.New(), productID, agentID, "Domates", time.Now(), "KASA",
			decimal.NewFromInt(20), decimal.NewFromInt(5), 2, &price)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPlanAllocation(t *testing.T) {
	productID := uuid.New()
	agentID := uuid.New()
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	t.Run("zero requirement is a no-op", func(t *testing.T) {
		lines := []BatchLine{newTestLine(t, productID, agentID, day1, 1, 110, 10, 10)}
		plan, err := PlanAllocation(productID, "Domates", decimal.Zero, nil, lines)
		require.NoError(t, err)
		assert.True(t, plan.IsEmpty())
	})

	t.Run("negative requirement is rejected", func(t *testing.T) {
		_, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(-5), nil, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("insufficient stock names the product and touches nothing", func(t *testing.T) {
		lines := []BatchLine{newTestLine(t, productID, agentID, day1, 1, 60, 10, 5)}
		_, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(100), nil, lines)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Domates")
		assert.Contains(t, err.Error(), "100")
		assert.Contains(t, err.Error(), "50")
		// planning never mutates
		assert.True(t, lines[0].RemainingWeight.Equal(decimal.NewFromInt(50)))
	})

	t.Run("no eligible lines is insufficient stock", func(t *testing.T) {
		other := newTestLine(t, uuid.New(), agentID, day1, 1, 110, 10, 10)
		_, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(1), nil, []BatchLine{other})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("draws oldest receipt date first", func(t *testing.T) {
		older := newTestLine(t, productID, agentID, day1, 2, 110, 10, 10)
		newer := newTestLine(t, productID, agentID, day2, 1, 110, 10, 10)

		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(40), nil, []BatchLine{newer, older})
		require.NoError(t, err)
		require.Len(t, plan.Takes, 1)
		assert.Equal(t, older.ID, plan.Takes[0].BatchLineID)
		assert.True(t, plan.Takes[0].WeightTaken.Equal(decimal.NewFromInt(40)))
	})

	t.Run("breaks receipt date ties by arrival sequence", func(t *testing.T) {
		first := newTestLine(t, productID, agentID, day1, 1, 110, 10, 10)
		second := newTestLine(t, productID, agentID, day1, 2, 110, 10, 10)

		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(30), nil, []BatchLine{second, first})
		require.NoError(t, err)
		require.Len(t, plan.Takes, 1)
		assert.Equal(t, first.ID, plan.Takes[0].BatchLineID)
	})

	t.Run("spans multiple lines greedily", func(t *testing.T) {
		l1 := newTestLine(t, productID, agentID, day1, 1, 40, 10, 3) // 30 net
		l2 := newTestLine(t, productID, agentID, day1, 2, 50, 10, 4) // 40 net
		l3 := newTestLine(t, productID, agentID, day2, 3, 60, 10, 5) // 50 net

		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(60), nil, []BatchLine{l3, l1, l2})
		require.NoError(t, err)
		require.Len(t, plan.Takes, 2)
		assert.Equal(t, l1.ID, plan.Takes[0].BatchLineID)
		assert.True(t, plan.Takes[0].WeightTaken.Equal(decimal.NewFromInt(30)))
		assert.True(t, plan.Takes[0].LineExhausted)
		assert.Equal(t, l2.ID, plan.Takes[1].BatchLineID)
		assert.True(t, plan.Takes[1].WeightTaken.Equal(decimal.NewFromInt(30)))
		assert.False(t, plan.Takes[1].LineExhausted)
		assert.True(t, plan.TotalWeight.Equal(decimal.NewFromInt(60)))
	})

	t.Run("exact exhaustion is normal", func(t *testing.T) {
		l1 := newTestLine(t, productID, agentID, day1, 1, 40, 10, 3)
		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(30), nil, []BatchLine{l1})
		require.NoError(t, err)
		require.Len(t, plan.Takes, 1)
		assert.True(t, plan.Takes[0].LineExhausted)
		assert.Equal(t, int64(3), plan.Takes[0].ContainersTaken)
	})

	t.Run("source agent filter excludes other agents", func(t *testing.T) {
		otherAgent := uuid.New()
		mine := newTestLine(t, productID, agentID, day2, 2, 110, 10, 10)
		theirs := newTestLine(t, productID, otherAgent, day1, 1, 110, 10, 10)

		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(40), &agentID, []BatchLine{theirs, mine})
		require.NoError(t, err)
		require.Len(t, plan.Takes, 1)
		assert.Equal(t, mine.ID, plan.Takes[0].BatchLineID)

		_, err = PlanAllocation(productID, "Domates", decimal.NewFromInt(150), &agentID, []BatchLine{theirs, mine})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestApplyAllocation(t *testing.T) {
	productID := uuid.New()
	agentID := uuid.New()
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	documentID := uuid.New()
	saleLineID := uuid.New()

	t.Run("decrements remaining and produces records", func(t *testing.T) {
		l1 := newTestLine(t, productID, agentID, day1, 1, 40, 10, 3) // 30 net
		l2 := newTestLine(t, productID, agentID, day1, 2, 50, 10, 4) // 40 net
		lines := []BatchLine{l1, l2}

		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(50), nil, lines)
		require.NoError(t, err)

		ptrs := []*BatchLine{&lines[0], &lines[1]}
		records, err := ApplyAllocation(documentID, saleLineID, plan, ptrs)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.True(t, lines[0].Exhausted())
		assert.Equal(t, int64(0), lines[0].RemainingContainers)
		assert.True(t, lines[1].RemainingWeight.Equal(decimal.NewFromInt(20)))

		// conservation: original - remaining == sum of draws per line
		for i := range lines {
			drawn := decimal.Zero
			for _, r := range records {
				if r.BatchLineID == lines[i].ID {
					drawn = drawn.Add(r.WeightTaken)
				}
			}
			assert.True(t, lines[i].NetWeight.Sub(lines[i].RemainingWeight).Equal(drawn),
				"conservation violated on line %d", i)
		}

		for _, r := range records {
			assert.Equal(t, documentID, r.DocumentID)
			assert.Equal(t, saleLineID, r.SaleLineID)
		}
	})

	t.Run("conservation holds across repeated allocations", func(t *testing.T) {
		line := newTestLine(t, productID, agentID, day1, 1, 110, 10, 10) // 100 net
		lines := []BatchLine{line}
		drawn := decimal.Zero

		for _, amount := range []int64{15, 25, 10, 50} {
			plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(amount), nil, lines)
			require.NoError(t, err)
			records, err := ApplyAllocation(uuid.New(), uuid.New(), plan, []*BatchLine{&lines[0]})
			require.NoError(t, err)
			for _, r := range records {
				drawn = drawn.Add(r.WeightTaken)
			}
		}

		assert.True(t, lines[0].Exhausted())
		assert.True(t, lines[0].NetWeight.Sub(lines[0].RemainingWeight).Equal(drawn))
	})

	t.Run("fails when a planned line is missing", func(t *testing.T) {
		line := newTestLine(t, productID, agentID, day1, 1, 110, 10, 10)
		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(10), nil, []BatchLine{line})
		require.NoError(t, err)

		_, err = ApplyAllocation(documentID, saleLineID, plan, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("fails when stock changed under the plan", func(t *testing.T) {
		line := newTestLine(t, productID, agentID, day1, 1, 110, 10, 10)
		plan, err := PlanAllocation(productID, "Domates", decimal.NewFromInt(80), nil, []BatchLine{line})
		require.NoError(t, err)

		// another allocation drained the line between plan and apply
		require.NoError(t, line.take(decimal.NewFromInt(90), 9))

		_, err = ApplyAllocation(documentID, saleLineID, plan, []*BatchLine{&line})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
