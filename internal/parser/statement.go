package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bankmerge-dev/bankmerge/internal/model"
	"github.com/bankmerge-dev/bankmerge/internal/money"
)

// Five-column debit/credit statement layout shared by the chequing and
// credit card dialects: date, description, debit, credit, balance.
const (
	stmtNumFields  = 5
	stmtColDate    = 0
	stmtColDesc    = 1
	stmtColDebit   = 2
	stmtColCredit  = 3
	stmtColBalance = 4
)

// errSkipRow marks a non-blank row with no date field; such rows are
// skipped silently, matching the export's trailing filler lines.
var errSkipRow = errors.New("skip row")

// parseStatement drives the shared read loop. Blank lines are dropped
// without consuming a row index; every other line either yields a row or
// a row-level error.
func parseStatement(r io.Reader, dateLayout string, strictAmounts bool) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("reading statement CSV: %w", err)
	}

	var res Result
	index := 0
	for _, rec := range records {
		if blankRecord(rec) {
			continue
		}
		row, err := parseStatementRow(rec, index, dateLayout, strictAmounts)
		index++
		if errors.Is(err, errSkipRow) {
			continue
		}
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: rec, Message: err.Error()})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func parseStatementRow(rec []string, index int, dateLayout string, strictAmounts bool) (model.ParsedRow, error) {
	if len(rec) != stmtNumFields {
		return model.ParsedRow{}, fmt.Errorf("expected %d fields, got %d", stmtNumFields, len(rec))
	}

	dateStr := strings.TrimSpace(rec[stmtColDate])
	if dateStr == "" {
		return model.ParsedRow{}, errSkipRow
	}

	occurredAt, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return model.ParsedRow{}, fmt.Errorf("invalid date %q, expected %s", dateStr, dateLayout)
	}

	debit, err := money.Parse(rec[stmtColDebit])
	if err != nil {
		return model.ParsedRow{}, err
	}
	credit, err := money.Parse(rec[stmtColCredit])
	if err != nil {
		return model.ParsedRow{}, err
	}
	balance, err := money.Parse(rec[stmtColBalance])
	if err != nil {
		return model.ParsedRow{}, err
	}

	if strictAmounts && debit.IsPositive() && credit.IsPositive() {
		return model.ParsedRow{}, errors.New("both debit and credit amounts present")
	}

	// Credit is money entering the account (income), debit is money
	// leaving it (expense). Which way that moves the balance column is
	// the dialect's concern, not the row's.
	var entryType model.EntryType
	var amountCents int64
	switch {
	case credit.IsPositive():
		entryType = model.EntryIncome
		amountCents = money.ToCents(credit)
	case debit.IsPositive():
		entryType = model.EntryExpense
		amountCents = money.ToCents(debit)
	default:
		return model.ParsedRow{}, errors.New("no valid amount found")
	}

	return model.ParsedRow{
		OccurredAt:   occurredAt,
		Description:  strings.TrimSpace(rec[stmtColDesc]),
		AmountCents:  amountCents,
		EntryType:    entryType,
		BalanceCents: money.ToCents(balance),
		RowIndex:     index,
	}, nil
}
