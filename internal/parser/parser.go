// Package parser converts raw bank statement exports into ParsedRows.
// Each supported dialect owns its date layout, column layout, and sign
// convention; malformed lines are reported per row so one bad line never
// aborts the rest of the file.
package parser

import (
	"io"
	"strings"

	"github.com/bankmerge-dev/bankmerge/internal/model"
)

// Traits describe dialect-wide behavior the importer depends on.
type Traits struct {
	// HasBalance is true when the statement carries a running balance
	// column, enabling balance reconciliation.
	HasBalance bool

	// NewestFirst is true when the native file order is newest row first,
	// which flips the same-day tie-break during sorting.
	NewestFirst bool

	// BalanceIsDebt is true when the reported balance tracks amount owed
	// (credit card) rather than funds on hand, inverting every balance
	// calculation.
	BalanceIsDebt bool
}

// RowError records a single line that failed to parse.
type RowError struct {
	Row     []string
	Message string
}

// Result holds the rows and row-level errors from parsing one file.
type Result struct {
	Rows   []model.ParsedRow
	Errors []RowError
}

// Parser converts a statement file into ParsedRows.
type Parser interface {
	Parse(r io.Reader) (Result, error)
	Format() string
	Traits() Traits
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChequingParser{})
	r.Register(&CreditCardParser{})
	r.Register(&PurchasesParser{})
	return r
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
