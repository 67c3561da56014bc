package parser

import (
	"io"
)

// ChequingParser parses deposit-account CSV exports.
//
// Expected row shape (quoted or unquoted, no header):
//
//	"2025-11-14","ACME Corp  PAY",,"1000.00","1500.00"
//
// Columns: date, description, debit, credit, balance. The file is
// oldest-first, and the balance column tracks funds on hand.
type ChequingParser struct{}

const chequingDateFormat = "2006-01-02"

// Format returns the parser name.
func (p *ChequingParser) Format() string { return "chequing" }

// Traits reports the dialect behavior.
func (p *ChequingParser) Traits() Traits {
	return Traits{HasBalance: true}
}

// Parse reads a chequing CSV and returns rows plus row-level errors.
// When a line carries both a debit and a credit, the credit wins.
func (p *ChequingParser) Parse(r io.Reader) (Result, error) {
	return parseStatement(r, chequingDateFormat, false)
}
