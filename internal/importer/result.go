package importer

import (
	"time"

	"github.com/bankmerge-dev/bankmerge/internal/model"
)

// ImportResult aggregates everything one import call did: inserts, skips,
// per-row failures, and balance warnings. Counts and lists accumulate in
// file order during the call and are read-only afterwards.
type ImportResult struct {
	ImportedCount int
	SkippedCount  int
	ErrorCount    int

	Errors            []string
	Warnings          []BalanceWarning
	SkippedDuplicates []SkippedDuplicate
}

// BalanceWarning reports a mismatch between the balance implied by the
// statement and the ledger's own balance at that point in time.
type BalanceWarning struct {
	ExpectedBalanceCents int64
	ActualBalanceCents   int64
	OccurredAt           time.Time
	Message              string
}

// SkippedDuplicate identifies a statement row that was already recorded.
type SkippedDuplicate struct {
	OccurredAt  time.Time
	Description string
	AmountCents int64
	EntryType   model.EntryType
}
