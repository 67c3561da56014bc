package parser

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankmerge-dev/bankmerge/internal/model"
)

func TestChequingParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chequing.csv")
	require.NoError(t, err)

	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, res.Rows, 6)

	// Credit row: income with exact cents.
	pay := res.Rows[1]
	assert.Equal(t, "ACME Corp  PAY", pay.Description)
	assert.Equal(t, model.EntryIncome, pay.EntryType)
	assert.Equal(t, int64(100000), pay.AmountCents)
	assert.Equal(t, int64(150000), pay.BalanceCents)
	assert.Equal(t, 2025, pay.OccurredAt.Year())
	assert.Equal(t, 11, int(pay.OccurredAt.Month()))
	assert.Equal(t, 14, pay.OccurredAt.Day())

	// Debit row: expense.
	hydro := res.Rows[2]
	assert.Equal(t, model.EntryExpense, hydro.EntryType)
	assert.Equal(t, int64(12025), hydro.AmountCents)
	assert.Equal(t, int64(137975), hydro.BalanceCents)
}

func TestChequingParser_RowIndexFollowsFileOrder(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chequing.csv")
	require.NoError(t, err)

	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	for i, row := range res.Rows {
		assert.Equal(t, i, row.RowIndex)
	}
}

func TestChequingParser_NoValidAmount(t *testing.T) {
	csv := "\"2025-11-14\",\"MYSTERY ROW\",,,\"100.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "no valid amount found", res.Errors[0].Message)
}

func TestChequingParser_BadMoney(t *testing.T) {
	csv := "\"2025-11-14\",\"BAD\",\"12x.00\",,\"100.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "invalid money value")
}

func TestChequingParser_BadDate(t *testing.T) {
	csv := "\"14/11/2025\",\"WRONG DATE ORDER\",,\"10.00\",\"100.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "invalid date")
}

func TestChequingParser_BadRowDoesNotAbortFile(t *testing.T) {
	csv := "\"2025-11-14\",\"GOOD\",,\"10.00\",\"110.00\"\n" +
		"\"2025-11-15\",\"BAD\",,,\"110.00\"\n" +
		"\"2025-11-16\",\"ALSO GOOD\",\"5.00\",,\"105.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Len(t, res.Errors, 1)

	// Errored rows still consume a row index.
	assert.Equal(t, 0, res.Rows[0].RowIndex)
	assert.Equal(t, 2, res.Rows[1].RowIndex)
}

func TestChequingParser_SkipsBlankLines(t *testing.T) {
	csv := "\"2025-11-14\",\"ONE\",,\"10.00\",\"110.00\"\n" +
		",,,,\n" +
		"\"2025-11-15\",\"TWO\",\"5.00\",,\"105.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.Rows[1].RowIndex)
}

func TestChequingParser_SkipsRowsWithoutDate(t *testing.T) {
	csv := ",\"NO DATE\",,\"10.00\",\"110.00\"\n" +
		"\"2025-11-15\",\"REAL\",\"5.00\",,\"105.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "REAL", res.Rows[0].Description)
}

func TestChequingParser_CreditWinsWhenBothPresent(t *testing.T) {
	csv := "\"2025-11-14\",\"WEIRD EXPORT\",\"5.00\",\"10.00\",\"110.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, model.EntryIncome, res.Rows[0].EntryType)
	assert.Equal(t, int64(1000), res.Rows[0].AmountCents)
}

func TestChequingParser_WrongFieldCount(t *testing.T) {
	csv := "\"2025-11-14\",\"SHORT ROW\",\"5.00\"\n"
	p := &ChequingParser{}
	res, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "expected 5 fields")
}

func TestChequingParser_Traits(t *testing.T) {
	p := &ChequingParser{}
	assert.Equal(t, "chequing", p.Format())
	assert.Equal(t, Traits{HasBalance: true}, p.Traits())
}
