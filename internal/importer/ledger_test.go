package importer

import (
	"errors"
	"sort"
	"time"

	"github.com/bankmerge-dev/bankmerge/internal/model"
)

// fakeLedger is an in-memory Ledger for orchestrator tests. It mirrors
// the store's contract: ascending (occurred_at, id) ordering and strict
// before/after comparisons.
type fakeLedger struct {
	nextID int64
	txs    []model.Transaction
}

func (l *fakeLedger) sorted() []model.Transaction {
	out := make([]model.Transaction, len(l.txs))
	copy(out, l.txs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (l *fakeLedger) FindMatching(occurredAt time.Time, amountCents int64, description string, entryType model.EntryType) (*model.Transaction, error) {
	for _, tx := range l.sorted() {
		if tx.OccurredAt.Equal(occurredAt) && tx.AmountCents == amountCents &&
			tx.Description == description && tx.EntryType == entryType {
			found := tx
			return &found, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) TransactionsBefore(ts time.Time) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, tx := range l.sorted() {
		if tx.OccurredAt.Before(ts) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (l *fakeLedger) TransactionsAfter(ts time.Time, excludeDescriptions []string) ([]model.Transaction, error) {
	excluded := make(map[string]bool, len(excludeDescriptions))
	for _, d := range excludeDescriptions {
		excluded[d] = true
	}
	var out []model.Transaction
	for _, tx := range l.sorted() {
		if tx.OccurredAt.After(ts) && !excluded[tx.Description] {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (l *fakeLedger) Insert(tx *model.Transaction) error {
	if tx.AmountCents <= 0 {
		return errors.New("amount must be positive")
	}
	if !tx.EntryType.Valid() {
		return errors.New("invalid entry type")
	}
	l.nextID++
	tx.ID = l.nextID
	l.txs = append(l.txs, *tx)
	return nil
}

func (l *fakeLedger) UpdateBalanceCents(id int64, balanceCents int64) error {
	for i := range l.txs {
		if l.txs[i].ID == id {
			balance := balanceCents
			l.txs[i].BalanceCents = &balance
			return nil
		}
	}
	return errors.New("transaction not found")
}

func (l *fakeLedger) CurrentBalance() (int64, error) {
	var sum int64
	for _, tx := range l.txs {
		sum += tx.SignedCents()
	}
	return sum, nil
}

func (l *fakeLedger) IsEmpty() (bool, error) {
	return len(l.txs) == 0, nil
}

// test helpers

func (l *fakeLedger) byDescription(description string) []model.Transaction {
	var out []model.Transaction
	for _, tx := range l.sorted() {
		if tx.Description == description {
			out = append(out, tx)
		}
	}
	return out
}

func (l *fakeLedger) add(day string, description string, amountCents int64, entryType model.EntryType, balanceCents *int64) {
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	l.nextID++
	l.txs = append(l.txs, model.Transaction{
		ID:           l.nextID,
		OccurredAt:   ts,
		Description:  description,
		AmountCents:  amountCents,
		EntryType:    entryType,
		Status:       model.StatusCleared,
		BalanceCents: balanceCents,
	})
}

func cents(v int64) *int64 { return &v }
