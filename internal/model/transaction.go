package model

import "time"

// EntryType classifies the direction of a ledger entry. Amounts are always
// non-negative; direction is carried here, never by a negative amount.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

// Valid reports whether the entry type is one of the known values.
func (e EntryType) Valid() bool {
	return e == EntryIncome || e == EntryExpense
}

// TransactionStatus represents the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusCleared  TransactionStatus = "cleared"
	StatusCanceled TransactionStatus = "canceled"
)

// Transaction is a persisted ledger entry for one account.
type Transaction struct {
	ID          int64
	OccurredAt  time.Time
	Description string
	AmountCents int64 // always > 0
	EntryType   EntryType
	Status      TransactionStatus

	// BalanceCents is the account's running balance after this entry.
	// Nil means unknown: the entry predates balance tracking or came from
	// a statement dialect without a balance column.
	BalanceCents *int64
}

// SignedCents returns the entry's effect on a funds-on-hand balance:
// positive for income, negative for expense.
func (t Transaction) SignedCents() int64 {
	if t.EntryType == EntryIncome {
		return t.AmountCents
	}
	return -t.AmountCents
}

// ParsedRow is one statement line after dialect parsing, before it is
// checked against the ledger.
type ParsedRow struct {
	OccurredAt  time.Time
	Description string
	AmountCents int64 // >= 0; direction carried by EntryType
	EntryType   EntryType

	// BalanceCents is the post-row balance reported by the statement.
	// Zero means the dialect carries no balance data.
	BalanceCents int64

	// RowIndex is the original line position, used only to order rows
	// that share a timestamp.
	RowIndex int
}
