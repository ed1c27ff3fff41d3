package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, partyType PartyType) *PartyAccount {
	t.Helper()
	account, err := NewPartyAccount("CARI-001", "Yıldız Gıda", partyType)
	require.NoError(t, err)
	return account
}

func mustEntry(t *testing.T, partyID uuid.UUID, kind EntryKind, amount int64) *LedgerEntry {
	t.Helper()
	entry, err := NewLedgerEntry(partyID, kind, decimal.NewFromInt(amount), nil, "")
	require.NoError(t, err)
	return entry
}

func TestLedgerEntrySigns(t *testing.T) {
	partyID := uuid.New()

	tests := []struct {
		kind   EntryKind
		amount int64
		effect int64
	}{
		{EntryKindDebit, 5000, 5000},
		{EntryKindCollection, 5000, 5000},
		{EntryKindCredit, 5000, -5000},
		{EntryKindPayment, 5000, -5000},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			entry := mustEntry(t, partyID, tt.kind, tt.amount)
			assert.True(t, entry.SignedAmount().Equal(decimal.NewFromInt(tt.effect)))
		})
	}

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewLedgerEntry(partyID, EntryKindDebit, decimal.Zero, nil, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestApplyEntry(t *testing.T) {
	t.Run("collection against a zero balance raises it by the amount", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		require.True(t, account.Balance.IsZero())

		entry := mustEntry(t, account.ID, EntryKindCollection, 5000)
		require.NoError(t, account.ApplyEntry(entry))
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("balance equals the running sum of entries", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		entries := []*LedgerEntry{
			mustEntry(t, account.ID, EntryKindDebit, 10000),
			mustEntry(t, account.ID, EntryKindPayment, 4000),
			mustEntry(t, account.ID, EntryKindDebit, 2500),
			mustEntry(t, account.ID, EntryKindCredit, 500),
		}
		replay := decimal.Zero
		for _, entry := range entries {
			require.NoError(t, account.ApplyEntry(entry))
			replay = replay.Add(entry.SignedAmount())
		}
		assert.True(t, account.Balance.Equal(replay))
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(8000)))
	})

	t.Run("rejects an entry for a different party", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		entry := mustEntry(t, uuid.New(), EntryKindDebit, 100)
		assert.ErrorIs(t, account.ApplyEntry(entry), shared.ErrInvalidInput)
	})
}

func TestCrateCounts(t *testing.T) {
	t.Run("limit blocks only when exceeded", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		require.NoError(t, account.SetCrateHoldingLimit(100))

		require.NoError(t, account.AddCrates(100))
		assert.EqualValues(t, 100, account.CurrentCrateCount)

		err := account.AddCrates(1)
		assert.ErrorIs(t, err, shared.ErrDepositLimitExceeded)
		assert.EqualValues(t, 100, account.CurrentCrateCount)
	})

	t.Run("zero limit never blocks", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		require.NoError(t, account.AddCrates(100000))
	})

	t.Run("cannot remove more than held", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		require.NoError(t, account.AddCrates(10))
		assert.ErrorIs(t, account.RemoveCrates(11), shared.ErrOverReturn)
		require.NoError(t, account.RemoveCrates(10))
		assert.EqualValues(t, 0, account.CurrentCrateCount)
	})
}

func TestEvaluateRisk(t *testing.T) {
	t.Run("deposit exposure counts toward the limit", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		require.NoError(t, account.SetRiskLimit(decimal.NewFromInt(10000)))

		// 60 crates pledged at a 100-unit fee
		assessment := EvaluateRisk(account, decimal.NewFromInt(6000), decimal.NewFromInt(5000))
		assert.True(t, assessment.CurrentExposure.Equal(decimal.NewFromInt(6000)))
		assert.True(t, assessment.Limit.Equal(decimal.NewFromInt(10000)))
		assert.True(t, assessment.WouldExceed)
	})

	t.Run("ledger balance adds to exposure", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		require.NoError(t, account.SetRiskLimit(decimal.NewFromInt(10000)))
		require.NoError(t, account.ApplyEntry(mustEntry(t, account.ID, EntryKindDebit, 3000)))

		assessment := EvaluateRisk(account, decimal.NewFromInt(6000), decimal.NewFromInt(500))
		assert.True(t, assessment.CurrentExposure.Equal(decimal.NewFromInt(9000)))
		assert.False(t, assessment.WouldExceed)
	})

	t.Run("zero limit never flags", func(t *testing.T) {
		account := newTestAccount(t, PartyTypeBuyer)
		assessment := EvaluateRisk(account, decimal.NewFromInt(1000000), decimal.NewFromInt(1000000))
		assert.False(t, assessment.WouldExceed)
	})
}
