package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bankmerge-dev/bankmerge/internal/model"
	"github.com/bankmerge-dev/bankmerge/internal/money"
)

// PurchasesParser parses per-purchase card feed CSV exports.
//
// Expected format (quoted CSV with a header row):
//
//	"Description","Type","Card Holder Name","Date","Time","Amount"
//	"TIM HORTONS #1723","PURCHASE","JOHN DOE","12/11/2025","01:35 AM","-1.92"
//
// There is no balance column. The amount's sign carries the direction:
// negative for purchases (expense), non-negative for payments and
// credits (income).
type PurchasesParser struct{}

const (
	purchasesDateFormat     = "01/02/2006"
	purchasesDateTimeFormat = "01/02/2006 03:04 PM"

	purchasesColDescription = "Description"
	purchasesColType        = "Type"
	purchasesColDate        = "Date"
	purchasesColTime        = "Time"
	purchasesColAmount      = "Amount"

	// Transaction types other than this one get appended to the
	// description so refunds and fees stay distinguishable.
	purchasesDefaultType = "PURCHASE"
)

// Format returns the parser name.
func (p *PurchasesParser) Format() string { return "purchases" }

// Traits reports the dialect behavior.
func (p *PurchasesParser) Traits() Traits { return Traits{} }

// Parse reads a purchase feed CSV and returns rows plus row-level errors.
func (p *PurchasesParser) Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("reading purchases CSV: %w", err)
	}
	if len(records) == 0 {
		return Result{}, nil
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{purchasesColDescription, purchasesColDate, purchasesColAmount} {
		if _, ok := cols[required]; !ok {
			return Result{}, fmt.Errorf("missing %q column in header", required)
		}
	}

	var res Result
	index := 0
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row, err := p.parseRow(rec, cols, index)
		index++
		if err == errSkipRow {
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

func (p *PurchasesParser) parseRow(rec []string, cols map[string]int, index int) (model.ParsedRow, error) {
	dateStr := field(rec, cols, purchasesColDate)
	if dateStr == "" {
		return model.ParsedRow{}, errSkipRow
	}
	timeStr := field(rec, cols, purchasesColTime)

	occurredAt, err := parsePurchaseTimestamp(dateStr, timeStr)
	if err != nil {
		return model.ParsedRow{}, err
	}

	amount, err := money.Parse(field(rec, cols, purchasesColAmount))
	if err != nil {
		return model.ParsedRow{}, err
	}

	var entryType model.EntryType
	if amount.IsNegative() {
		entryType = model.EntryExpense
	} else {
		entryType = model.EntryIncome
	}
	amountCents := money.ToCents(amount.Abs())

	description := field(rec, cols, purchasesColDescription)
	txType := strings.ToUpper(field(rec, cols, purchasesColType))
	if txType != "" && txType != purchasesDefaultType {
		description = fmt.Sprintf("%s (%s)", description, txType)
	}

	return model.ParsedRow{
		OccurredAt:   occurredAt,
		Description:  description,
		AmountCents:  amountCents,
		EntryType:    entryType,
		BalanceCents: 0, // feed has no balance column
		RowIndex:     index,
	}, nil
}

func parsePurchaseTimestamp(dateStr, timeStr string) (time.Time, error) {
	if timeStr != "" {
		ts, err := time.Parse(purchasesDateTimeFormat, dateStr+" "+timeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date/time %q %q, expected MM/DD/YYYY HH:MM AM/PM", dateStr, timeStr)
		}
		return ts, nil
	}
	ts, err := time.Parse(purchasesDateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected MM/DD/YYYY", dateStr)
	}
	return ts, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
