package importer

import (
	"fmt"
	"time"

	"github.com/bankmerge-dev/bankmerge/internal/model"
	"github.com/bankmerge-dev/bankmerge/internal/money"
)

// reconcileImport is the path for dialects that report a running balance.
//
// On an empty ledger it seeds an opening balance from the earliest row
// and imports everything. Otherwise it anchors on the earliest
// non-duplicate row, compares the balance the statement implies with the
// ledger's own balance at that instant, inserts an adjustment entry when
// they disagree, imports the remaining rows, and finally replays existing
// later entries so their stored balances reflect the back-filled data.
func (r *run) reconcileImport(rows []model.ParsedRow) error {
	empty, err := r.ledger.IsEmpty()
	if err != nil {
		return err
	}
	if empty {
		if err := r.createOpeningBalance(rows); err != nil {
			return err
		}
		for _, row := range rows {
			if err := r.importRow(row); err != nil {
				return err
			}
		}
		return nil
	}

	anchor, found, err := r.oldestNonDuplicate(rows)
	if err != nil {
		return err
	}
	if !found {
		// Every row is already recorded; nothing to reconcile.
		for _, row := range rows {
			r.recordSkip(row)
		}
		return nil
	}

	expected := r.balanceBefore(anchor)
	actual, err := r.actualBalanceBefore(anchor.OccurredAt)
	if err != nil {
		return err
	}
	if expected != actual {
		r.addBalanceWarning(expected, actual, anchor.OccurredAt)
		r.createBalanceAdjustment(expected-actual, anchor.OccurredAt)
	}

	for _, row := range rows {
		if err := r.importRow(row); err != nil {
			return err
		}
	}

	return r.replayNewer()
}

func (r *run) oldestNonDuplicate(rows []model.ParsedRow) (model.ParsedRow, bool, error) {
	for _, row := range rows {
		dup, err := r.isDuplicate(row)
		if err != nil {
			return model.ParsedRow{}, false, err
		}
		if !dup {
			return row, true, nil
		}
	}
	return model.ParsedRow{}, false, nil
}

// balanceBefore inverts the row's own effect on its reported post-row
// balance. For funds-on-hand balances income raises the balance; for debt
// balances income (a payment) lowers it.
func (r *run) balanceBefore(row model.ParsedRow) int64 {
	if r.traits.BalanceIsDebt {
		if row.EntryType == model.EntryIncome {
			return row.BalanceCents + row.AmountCents
		}
		return row.BalanceCents - row.AmountCents
	}
	if row.EntryType == model.EntryIncome {
		return row.BalanceCents - row.AmountCents
	}
	return row.BalanceCents + row.AmountCents
}

// applyEntry advances a running balance across one existing entry, using
// the same polarity rule as balanceBefore.
func (r *run) applyEntry(balance int64, tx model.Transaction) int64 {
	if r.traits.BalanceIsDebt {
		if tx.EntryType == model.EntryIncome {
			return balance - tx.AmountCents
		}
		return balance + tx.AmountCents
	}
	if tx.EntryType == model.EntryIncome {
		return balance + tx.AmountCents
	}
	return balance - tx.AmountCents
}

// actualBalanceBefore derives the ledger's balance just before ts: the
// most recent tracked balance wins, otherwise the signed sum of
// everything strictly before ts.
func (r *run) actualBalanceBefore(ts time.Time) (int64, error) {
	before, err := r.ledger.TransactionsBefore(ts)
	if err != nil {
		return 0, err
	}
	for i := len(before) - 1; i >= 0; i-- {
		if before[i].BalanceCents != nil {
			return *before[i].BalanceCents, nil
		}
	}
	var sum int64
	for _, tx := range before {
		sum += tx.SignedCents()
	}
	return sum, nil
}

func (r *run) addBalanceWarning(expected, actual int64, occurredAt time.Time) {
	diff := expected - actual
	direction := "higher"
	if diff < 0 {
		direction = "lower"
	}
	r.res.Warnings = append(r.res.Warnings, BalanceWarning{
		ExpectedBalanceCents: expected,
		ActualBalanceCents:   actual,
		OccurredAt:           occurredAt,
		Message: fmt.Sprintf("balance mismatch: statement implies %s but ledger shows %s (%s %s); a Balance Adjustment entry was created",
			money.FormatCents(expected), money.FormatCents(actual), money.FormatCents(abs(diff)), direction),
	})
}

// createBalanceAdjustment inserts an entry whose effect moves the
// ledger's computed balance toward the statement-implied value. Its
// balance stays untracked; replay never touches synthesized entries.
func (r *run) createBalanceAdjustment(diff int64, occurredAt time.Time) {
	var entryType model.EntryType
	if r.traits.BalanceIsDebt {
		// More debt than the ledger shows means a missing purchase.
		entryType = model.EntryExpense
		if diff < 0 {
			entryType = model.EntryIncome
		}
	} else {
		entryType = model.EntryIncome
		if diff < 0 {
			entryType = model.EntryExpense
		}
	}

	tx := &model.Transaction{
		OccurredAt:  occurredAt,
		Description: balanceAdjustmentDescription,
		AmountCents: abs(diff),
		EntryType:   entryType,
		Status:      model.StatusCleared,
	}
	if err := r.ledger.Insert(tx); err != nil {
		r.res.ErrorCount++
		r.res.Errors = append(r.res.Errors, fmt.Sprintf("failed to create balance adjustment: %v", err))
		return
	}
	r.res.ImportedCount++
}

// createOpeningBalance synthesizes the account's state immediately before
// the earliest row. rows must already be in chronological order. Nothing
// happens when the dialect carries no balance, the computed opening
// amount is zero, or an opening entry already exists on that day.
func (r *run) createOpeningBalance(rows []model.ParsedRow) error {
	earliest := rows[0]
	if earliest.BalanceCents == 0 {
		return nil
	}

	opening := r.balanceBefore(earliest)
	if opening == 0 {
		return nil
	}

	exists, err := r.openingBalanceExistsOn(earliest.OccurredAt)
	if err != nil {
		return err
	}
	if exists {
		r.res.SkippedCount++
		return nil
	}

	var entryType model.EntryType
	if r.traits.BalanceIsDebt {
		// A positive opening balance on a card is carried debt.
		entryType = model.EntryExpense
		if opening < 0 {
			entryType = model.EntryIncome
		}
	} else {
		entryType = model.EntryIncome
		if opening < 0 {
			entryType = model.EntryExpense
		}
	}

	tx := &model.Transaction{
		OccurredAt:  earliest.OccurredAt,
		Description: openingBalanceDescription,
		AmountCents: abs(opening),
		EntryType:   entryType,
		Status:      model.StatusCleared,
	}
	if err := r.ledger.Insert(tx); err != nil {
		r.res.ErrorCount++
		r.res.Errors = append(r.res.Errors, fmt.Sprintf("failed to create opening balance: %v", err))
		return nil
	}
	r.res.ImportedCount++
	return nil
}

func (r *run) openingBalanceExistsOn(ts time.Time) (bool, error) {
	dayStart := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	after, err := r.ledger.TransactionsAfter(dayStart.Add(-time.Nanosecond), nil)
	if err != nil {
		return false, err
	}
	for _, tx := range after {
		if tx.Description == openingBalanceDescription && sameDay(tx.OccurredAt, ts) {
			return true, nil
		}
	}
	return false, nil
}

// replayNewer rewrites the stored balances of existing entries dated
// strictly after the last row this call inserted, walking forward from
// that row's reported balance. Running it again with no new data is a
// no-op in effect: every entry gets the same recomputed value.
func (r *run) replayNewer() error {
	if r.lastRow == nil {
		return nil
	}

	newer, err := r.ledger.TransactionsAfter(r.lastRow.OccurredAt,
		[]string{openingBalanceDescription, balanceAdjustmentDescription})
	if err != nil {
		return err
	}

	running := r.lastRow.BalanceCents
	for _, tx := range newer {
		running = r.applyEntry(running, tx)
		if err := r.ledger.UpdateBalanceCents(tx.ID, running); err != nil {
			return err
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
