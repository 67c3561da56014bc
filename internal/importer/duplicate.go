package importer

import (
	"github.com/bankmerge-dev/bankmerge/internal/model"
)

// isDuplicate reports whether the row already exists in the ledger.
//
// A candidate matches on (occurred_at, amount, description, entry_type).
// Once one exists:
//   - a candidate without a tracked balance is a legacy entry and matches
//     unconditionally;
//   - a row that carries its own balance matches only when the balances
//     agree, so two otherwise-identical rows with different resulting
//     balances import as distinct transactions;
//   - a row without usable balance data matches on the base fields alone.
func (r *run) isDuplicate(row model.ParsedRow) (bool, error) {
	existing, err := r.ledger.FindMatching(row.OccurredAt, row.AmountCents, row.Description, row.EntryType)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if existing.BalanceCents == nil {
		return true, nil
	}
	if row.BalanceCents != 0 {
		return *existing.BalanceCents == row.BalanceCents, nil
	}
	return true, nil
}
