package parser

import (
	"io"
)

// CreditCardParser parses credit card statement CSV exports.
//
// Expected row shape (unquoted, no header):
//
//	11/24/2025,BALANCE PROTECTION INS,20.67,,2109.88
//
// Columns: date, description, debit, credit, balance. Dates are
// MM/DD/YYYY and the file is newest-first. The balance column is the
// amount owed: purchases (debit, expense) raise it and payments or
// refunds (credit, income) lower it.
type CreditCardParser struct{}

const creditCardDateFormat = "01/02/2006"

// Format returns the parser name.
func (p *CreditCardParser) Format() string { return "creditcard" }

// Traits reports the dialect behavior.
func (p *CreditCardParser) Traits() Traits {
	return Traits{HasBalance: true, NewestFirst: true, BalanceIsDebt: true}
}

// Parse reads a credit card CSV and returns rows plus row-level errors.
// A line carrying both a debit and a credit is a row error.
func (p *CreditCardParser) Parse(r io.Reader) (Result, error) {
	return parseStatement(r, creditCardDateFormat, true)
}
