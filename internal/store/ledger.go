package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bankmerge-dev/bankmerge/internal/importer"
	"github.com/bankmerge-dev/bankmerge/internal/model"
)

// AccountLedger is the mutable, queryable collection of one account's
// transactions. Timestamps are stored as unix seconds; query results come
// back in ascending (occurred_at, id) order.
type AccountLedger struct {
	db        *sql.DB
	accountID int64
}

var _ importer.Ledger = (*AccountLedger)(nil)

const transactionColumns = "id, occurred_at, description, amount_cents, entry_type, status, balance_cents"

// FindMatching returns the first transaction with the exact timestamp,
// amount, description, and entry type, or nil.
func (l *AccountLedger) FindMatching(occurredAt time.Time, amountCents int64, description string, entryType model.EntryType) (*model.Transaction, error) {
	row := l.db.QueryRow(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = ? AND occurred_at = ? AND amount_cents = ? AND description = ? AND entry_type = ?
		ORDER BY id
		LIMIT 1
	`, l.accountID, occurredAt.Unix(), amountCents, description, string(entryType))

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying matching transaction: %w", err)
	}
	return &tx, nil
}

// TransactionsBefore returns all transactions strictly before ts.
func (l *AccountLedger) TransactionsBefore(ts time.Time) ([]model.Transaction, error) {
	rows, err := l.db.Query(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = ? AND occurred_at < ?
		ORDER BY occurred_at, id
	`, l.accountID, ts.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying transactions before %s: %w", ts, err)
	}
	return collectTransactions(rows)
}

// TransactionsAfter returns all transactions strictly after ts, leaving
// out any whose description is in excludeDescriptions.
func (l *AccountLedger) TransactionsAfter(ts time.Time, excludeDescriptions []string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = ? AND occurred_at > ?`
	args := []any{l.accountID, ts.Unix()}

	if len(excludeDescriptions) > 0 {
		query += ` AND description NOT IN (?` + strings.Repeat(",?", len(excludeDescriptions)-1) + `)`
		for _, d := range excludeDescriptions {
			args = append(args, d)
		}
	}
	query += ` ORDER BY occurred_at, id`

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions after %s: %w", ts, err)
	}
	return collectTransactions(rows)
}

// Insert validates and stores a new transaction, filling in its ID.
func (l *AccountLedger) Insert(tx *model.Transaction) error {
	if tx.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive, got %d", tx.AmountCents)
	}
	if !tx.EntryType.Valid() {
		return fmt.Errorf("invalid entry type %q", tx.EntryType)
	}
	if tx.OccurredAt.IsZero() {
		return errors.New("occurred_at is required")
	}
	if tx.Status == "" {
		tx.Status = model.StatusPending
	}

	var balance sql.NullInt64
	if tx.BalanceCents != nil {
		balance = sql.NullInt64{Int64: *tx.BalanceCents, Valid: true}
	}

	err := l.db.QueryRow(`
		INSERT INTO transactions (account_id, occurred_at, description, amount_cents, entry_type, status, balance_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, l.accountID, tx.OccurredAt.Unix(), tx.Description, tx.AmountCents, string(tx.EntryType), string(tx.Status), balance).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

// UpdateBalanceCents overwrites the stored running balance of one
// transaction. Only the replay step uses this.
func (l *AccountLedger) UpdateBalanceCents(id int64, balanceCents int64) error {
	result, err := l.db.Exec(`
		UPDATE transactions
		SET balance_cents = ?
		WHERE id = ? AND account_id = ?
	`, balanceCents, id, l.accountID)
	if err != nil {
		return fmt.Errorf("updating balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// CurrentBalance returns the signed sum of all the account's entries.
func (l *AccountLedger) CurrentBalance() (int64, error) {
	var balance int64
	err := l.db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN entry_type = 'income' THEN amount_cents ELSE -amount_cents END), 0)
		FROM transactions
		WHERE account_id = ?
	`, l.accountID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("computing balance: %w", err)
	}
	return balance, nil
}

// IsEmpty reports whether the account has no transactions at all.
func (l *AccountLedger) IsEmpty() (bool, error) {
	var exists bool
	err := l.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM transactions WHERE account_id = ?)
	`, l.accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking for transactions: %w", err)
	}
	return !exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var tx model.Transaction
	var occurredAt int64
	var entryType, status string
	var balance sql.NullInt64

	err := row.Scan(&tx.ID, &occurredAt, &tx.Description, &tx.AmountCents, &entryType, &status, &balance)
	if err != nil {
		return model.Transaction{}, err
	}

	tx.OccurredAt = time.Unix(occurredAt, 0).UTC()
	tx.EntryType = model.EntryType(entryType)
	tx.Status = model.TransactionStatus(status)
	if balance.Valid {
		b := balance.Int64
		tx.BalanceCents = &b
	}
	return tx, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
