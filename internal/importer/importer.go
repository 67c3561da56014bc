// Package importer merges parsed bank statements into a per-account
// ledger: it orders rows chronologically, skips rows that are already
// recorded, reconciles the ledger balance against the balance the
// statement implies, and repairs stored running balances when older data
// is back-filled.
package importer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bankmerge-dev/bankmerge/internal/model"
	"github.com/bankmerge-dev/bankmerge/internal/parser"
)

// Ledger is the mutable, queryable collection of one account's
// transactions. Before/After queries return rows in ascending
// (occurred_at, id) order; Before and After are both strict.
type Ledger interface {
	FindMatching(occurredAt time.Time, amountCents int64, description string, entryType model.EntryType) (*model.Transaction, error)
	TransactionsBefore(ts time.Time) ([]model.Transaction, error)
	TransactionsAfter(ts time.Time, excludeDescriptions []string) ([]model.Transaction, error)
	Insert(tx *model.Transaction) error
	UpdateBalanceCents(id int64, balanceCents int64) error
	CurrentBalance() (int64, error)
	IsEmpty() (bool, error)
}

// Descriptions of the entries the importer synthesizes itself. Replay
// skips them so they are never treated as statement activity.
const (
	openingBalanceDescription    = "Opening Balance"
	balanceAdjustmentDescription = "Balance Adjustment"
)

const dateRef = "2006-01-02"

// Importer is the top-level entry point for statement imports.
type Importer struct {
	registry *parser.Registry
	locks    *accountLocks
}

// New creates an Importer over the given parser registry.
func New(registry *parser.Registry) *Importer {
	return &Importer{registry: registry, locks: newAccountLocks()}
}

// Import parses data in the named format and merges it into the
// account's ledger. The whole call holds the account's lock. An unknown
// format fails before anything is parsed; per-row failures are recorded
// in the result instead of aborting. When a ledger operation fails
// mid-call the partial result is returned alongside the error.
func (imp *Importer) Import(accountID int64, ledger Ledger, format string, data []byte) (*ImportResult, error) {
	p := imp.registry.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	release := imp.locks.acquire(accountID)
	defer release()

	parsed, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s statement: %w", format, err)
	}

	res := &ImportResult{}
	for _, re := range parsed.Errors {
		res.ErrorCount++
		res.Errors = append(res.Errors,
			fmt.Sprintf("parse error: %s (row: %s)", re.Message, strings.Join(re.Row, ", ")))
	}
	if len(parsed.Rows) == 0 {
		return res, nil
	}

	traits := p.Traits()
	rows := sortChronologically(parsed.Rows, traits.NewestFirst)

	r := &run{ledger: ledger, traits: traits, res: res}
	if traits.HasBalance {
		err = r.reconcileImport(rows)
	} else {
		err = r.simpleImport(rows)
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

// run threads the mutable state of one import call through its phases.
type run struct {
	ledger Ledger
	traits parser.Traits
	res    *ImportResult

	// lastRow is the chronologically last statement row inserted during
	// this call. Replay anchors on it; synthesized entries never set it.
	lastRow *model.ParsedRow
}

// sortChronologically orders rows by timestamp, breaking same-timestamp
// ties with the original line position: ascending for oldest-first files,
// descending for newest-first files. Both the opening balance and the
// duplicate scan need "earliest row" to be well-defined within a day.
func sortChronologically(rows []model.ParsedRow, newestFirst bool) []model.ParsedRow {
	sorted := make([]model.ParsedRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		if newestFirst {
			return a.RowIndex > b.RowIndex
		}
		return a.RowIndex < b.RowIndex
	})
	return sorted
}

// simpleImport is the path for dialects without balance data.
func (r *run) simpleImport(rows []model.ParsedRow) error {
	balance, err := r.ledger.CurrentBalance()
	if err != nil {
		return err
	}
	if balance == 0 && len(rows) > 0 {
		if err := r.createOpeningBalance(rows); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := r.importRow(row); err != nil {
			return err
		}
	}
	return nil
}

// importRow inserts one statement row, routing duplicates to the skip
// list. Insert failures are per-row errors, not call failures.
func (r *run) importRow(row model.ParsedRow) error {
	dup, err := r.isDuplicate(row)
	if err != nil {
		return err
	}
	if dup {
		r.recordSkip(row)
		return nil
	}
	r.insertRow(row)
	return nil
}

func (r *run) insertRow(row model.ParsedRow) {
	tx := &model.Transaction{
		OccurredAt:  row.OccurredAt,
		Description: row.Description,
		AmountCents: row.AmountCents,
		EntryType:   row.EntryType,
		Status:      model.StatusCleared,
	}
	if row.BalanceCents != 0 {
		balance := row.BalanceCents
		tx.BalanceCents = &balance
	}

	if err := r.ledger.Insert(tx); err != nil {
		r.res.ErrorCount++
		r.res.Errors = append(r.res.Errors,
			fmt.Sprintf("failed to save transaction: %v (%s on %s)", err, row.Description, row.OccurredAt.Format(dateRef)))
		return
	}
	r.res.ImportedCount++
	r.lastRow = &row
}

func (r *run) recordSkip(row model.ParsedRow) {
	r.res.SkippedCount++
	r.res.SkippedDuplicates = append(r.res.SkippedDuplicates, SkippedDuplicate{
		OccurredAt:  row.OccurredAt,
		Description: row.Description,
		AmountCents: row.AmountCents,
		EntryType:   row.EntryType,
	})
}
