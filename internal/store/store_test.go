package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankmerge-dev/bankmerge/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bankmerge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return ts
}

func insert(t *testing.T, l *AccountLedger, dayStr, description string, amountCents int64, entryType model.EntryType, balanceCents *int64) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{
		OccurredAt:   day(t, dayStr),
		Description:  description,
		AmountCents:  amountCents,
		EntryType:    entryType,
		Status:       model.StatusCleared,
		BalanceCents: balanceCents,
	}
	require.NoError(t, l.Insert(tx))
	require.NotZero(t, tx.ID)
	return tx
}

func cents(v int64) *int64 { return &v }

func TestEnsureAccount(t *testing.T) {
	s := openTestStore(t)

	id, err := s.EnsureAccount("TD Chequing")
	require.NoError(t, err)
	require.NotZero(t, id)

	again, err := s.EnsureAccount("TD Chequing")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := s.EnsureAccount("Visa")
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	names, err := s.AccountNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"TD Chequing", "Visa"}, names)
}

func TestLedger_InsertAndFindMatching(t *testing.T) {
	s := openTestStore(t)
	id, err := s.EnsureAccount("main")
	require.NoError(t, err)
	ledger := s.Ledger(id)

	insert(t, ledger, "2025-11-14", "ACME Corp  PAY", 100000, model.EntryIncome, cents(150000))

	found, err := ledger.FindMatching(day(t, "2025-11-14"), 100000, "ACME Corp  PAY", model.EntryIncome)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ACME Corp  PAY", found.Description)
	assert.Equal(t, day(t, "2025-11-14"), found.OccurredAt)
	require.NotNil(t, found.BalanceCents)
	assert.Equal(t, int64(150000), *found.BalanceCents)
	assert.Equal(t, model.StatusCleared, found.Status)

	// Any field off means no match.
	miss, err := ledger.FindMatching(day(t, "2025-11-14"), 100000, "ACME Corp  PAY", model.EntryExpense)
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestLedger_InsertValidation(t *testing.T) {
	s := openTestStore(t)
	id, err := s.EnsureAccount("main")
	require.NoError(t, err)
	ledger := s.Ledger(id)

	err = ledger.Insert(&model.Transaction{
		OccurredAt:  day(t, "2025-11-14"),
		EntryType:   model.EntryIncome,
		AmountCents: 0,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be positive")

	err = ledger.Insert(&model.Transaction{
		OccurredAt:  day(t, "2025-11-14"),
		EntryType:   "transfer",
		AmountCents: 100,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entry type")

	err = ledger.Insert(&model.Transaction{
		EntryType:   model.EntryIncome,
		AmountCents: 100,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "occurred_at is required")
}

func TestLedger_BeforeAfterOrderingAndStrictness(t *testing.T) {
	s := openTestStore(t)
	id, err := s.EnsureAccount("main")
	require.NoError(t, err)
	ledger := s.Ledger(id)

	insert(t, ledger, "2025-11-20", "C", 300, model.EntryExpense, nil)
	insert(t, ledger, "2025-11-10", "A", 100, model.EntryIncome, nil)
	insert(t, ledger, "2025-11-15", "B", 200, model.EntryIncome, nil)

	before, err := ledger.TransactionsBefore(day(t, "2025-11-15"))
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "A", before[0].Description)

	after, err := ledger.TransactionsAfter(day(t, "2025-11-10"), nil)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, "B", after[0].Description)
	assert.Equal(t, "C", after[1].Description)
}

func TestLedger_SameTimestampOrderedByID(t *testing.T) {
	s := openTestStore(t)
	id, err := s.EnsureAccount("main")
	require.NoError(t, err)
	ledger := s.Ledger(id)

	insert(t, ledger, "2025-11-20", "first inserted", 100, model.EntryIncome, nil)
	insert(t, ledger, "2025-11-20", "second inserted", 200, model.EntryIncome, nil)

	after, err := ledger.TransactionsAfter(day(t, "2025-11-01"), nil)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, "first inserted", after[0].Description)
	assert.Equal(t, "second inserted", after[1].Description)
}

func TestLedger_AfterExcludesDescriptions(t *testing.T) {
	s := openTestStore(t)
	id, err := s.EnsureAccount("main")
	require.NoError(t, err)
	ledger := s.Ledger(id)

	insert(t, ledger, "2025-11-11", "Opening Balance", 500, model.EntryIncome, nil)
	insert(t, ledger, "2025-11-12", "Balance Adjustment", 100, model.EntryExpense, nil)
	insert(t, ledger, "2025-11-13", "GROCERY", 250, model.EntryExpense, nil)

	after, err := ledger.TransactionsAfter(day(t, "2025-11-01"), []string{"Opening Balance", "Balance Adjustment"})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "GROCERY", after[0].Description)
}

func TestLedger_UpdateBalanceCents(t *testing.T) {
	s := openTestStore(t)
	id, err := s.EnsureAccount("main")
	require.NoError(t, err)
	ledger := s.Ledger(id)

	tx := insert(t, ledger, "2025-11-13", "GROCERY", 250, model.EntryExpense, nil)
	require.NoError(t, ledger.UpdateBalanceCents(tx.ID, 34467))

	found, err := ledger.FindMatching(day(t, "2025-11-13"), 250, "GROCERY", model.EntryExpense)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.BalanceCents)
	assert.Equal(t, int64(34467), *found.BalanceCents)

	err = ledger.UpdateBalanceCents(9999, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLedger_CurrentBalanceAndIsEmpty(t *testing.T) {
	s := openTestStore(t)
	id, err := s.EnsureAccount("main")
	require.NoError(t, err)
	ledger := s.Ledger(id)

	empty, err := ledger.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	balance, err := ledger.CurrentBalance()
	require.NoError(t, err)
	assert.Zero(t, balance)

	insert(t, ledger, "2025-11-10", "PAY", 100000, model.EntryIncome, nil)
	insert(t, ledger, "2025-11-11", "RENT", 90000, model.EntryExpense, nil)

	empty, err = ledger.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	balance, err = ledger.CurrentBalance()
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)
}

func TestLedger_AccountsAreIsolated(t *testing.T) {
	s := openTestStore(t)
	one, err := s.EnsureAccount("one")
	require.NoError(t, err)
	two, err := s.EnsureAccount("two")
	require.NoError(t, err)

	insert(t, s.Ledger(one), "2025-11-10", "PAY", 100000, model.EntryIncome, nil)

	empty, err := s.Ledger(two).IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	found, err := s.Ledger(two).FindMatching(day(t, "2025-11-10"), 100000, "PAY", model.EntryIncome)
	require.NoError(t, err)
	assert.Nil(t, found)
}
