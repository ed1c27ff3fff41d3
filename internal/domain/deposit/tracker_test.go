package deposit

import (
	"testing"

	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParty(t *testing.T, holdingLimit int64) (*partner.PartyAccount, *CrateHolding) {
	t.Helper()
	account, err := partner.NewPartyAccount("CARI-001", "Yıldız Gıda", partner.PartyTypeBuyer)
	require.NoError(t, err)
	require.NoError(t, account.SetCrateHoldingLimit(holdingLimit))

	holding, err := NewCrateHolding(account.ID, "KASA")
	require.NoError(t, err)
	return account, holding
}

func TestPledge(t *testing.T) {
	fee := decimal.NewFromInt(100)

	t.Run("accumulates holding and deposit value", func(t *testing.T) {
		account, holding := newTestParty(t, 100)

		ticket, err := Pledge(holding, account, 60, fee)
		require.NoError(t, err)

		assert.Equal(t, DirectionIssue, ticket.Direction)
		assert.EqualValues(t, 60, ticket.Count)
		assert.True(t, ticket.Amount.Equal(decimal.NewFromInt(6000)))
		assert.EqualValues(t, 60, holding.FullCount)
		assert.True(t, holding.OutstandingDeposit.Equal(decimal.NewFromInt(6000)))
		assert.EqualValues(t, 60, account.CurrentCrateCount)
	})

	t.Run("fails when the holding limit would be breached", func(t *testing.T) {
		account, holding := newTestParty(t, 100)
		_, err := Pledge(holding, account, 60, fee)
		require.NoError(t, err)

		_, err = Pledge(holding, account, 41, fee)
		assert.ErrorIs(t, err, shared.ErrDepositLimitExceeded)
		assert.Contains(t, err.Error(), "Yıldız Gıda")
		assert.Contains(t, err.Error(), "KASA")

		// nothing moved on the failed pledge
		assert.EqualValues(t, 60, holding.FullCount)
		assert.EqualValues(t, 60, account.CurrentCrateCount)
		assert.True(t, holding.OutstandingDeposit.Equal(decimal.NewFromInt(6000)))
	})

	t.Run("a pledge landing exactly on the limit succeeds", func(t *testing.T) {
		account, holding := newTestParty(t, 100)
		_, err := Pledge(holding, account, 100, fee)
		require.NoError(t, err)
		assert.EqualValues(t, 100, account.CurrentCrateCount)
	})

	t.Run("rejects a holding owned by another party", func(t *testing.T) {
		account, _ := newTestParty(t, 100)
		other, otherHolding := newTestParty(t, 100)
		_ = other

		_, err := Pledge(otherHolding, account, 1, fee)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestReturn(t *testing.T) {
	fee := decimal.NewFromInt(100)

	t.Run("partial return releases deposit proportionally", func(t *testing.T) {
		account, holding := newTestParty(t, 0)
		_, err := Pledge(holding, account, 60, fee)
		require.NoError(t, err)

		ticket, err := Return(holding, account, 20)
		require.NoError(t, err)

		assert.Equal(t, DirectionReturn, ticket.Direction)
		assert.True(t, ticket.Amount.Equal(decimal.NewFromInt(2000)))
		assert.EqualValues(t, 40, holding.TotalCount())
		assert.True(t, holding.OutstandingDeposit.Equal(decimal.NewFromInt(4000)))
		assert.EqualValues(t, 40, account.CurrentCrateCount)
	})

	t.Run("full return lands on exactly zero", func(t *testing.T) {
		account, holding := newTestParty(t, 0)
		// odd fee so proportional rounding would otherwise leave residue
		_, err := Pledge(holding, account, 3, decimal.NewFromFloat(33.33))
		require.NoError(t, err)

		_, err = Return(holding, account, 1)
		require.NoError(t, err)

		ticket, err := Return(holding, account, 2)
		require.NoError(t, err)

		assert.True(t, holding.OutstandingDeposit.IsZero(), "got %s", holding.OutstandingDeposit)
		assert.EqualValues(t, 0, holding.TotalCount())
		assert.EqualValues(t, 0, account.CurrentCrateCount)
		assert.False(t, ticket.Amount.IsNegative())
	})

	t.Run("over-return fails without touching state", func(t *testing.T) {
		account, holding := newTestParty(t, 0)
		_, err := Pledge(holding, account, 10, fee)
		require.NoError(t, err)

		_, err = Return(holding, account, 11)
		assert.ErrorIs(t, err, shared.ErrOverReturn)
		assert.Contains(t, err.Error(), "KASA")
		assert.EqualValues(t, 10, holding.TotalCount())
		assert.True(t, holding.OutstandingDeposit.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("returns drain emptied containers first", func(t *testing.T) {
		account, holding := newTestParty(t, 0)
		_, err := Pledge(holding, account, 10, fee)
		require.NoError(t, err)
		require.NoError(t, holding.MarkEmptied(4))

		_, err = Return(holding, account, 6)
		require.NoError(t, err)
		assert.EqualValues(t, 0, holding.EmptyCount)
		assert.EqualValues(t, 4, holding.FullCount)
	})
}
