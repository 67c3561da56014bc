// Package auditlog records one CSV row per import run.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Account   string
	Format    string
	File      string
	Imported  int
	Skipped   int
	Errors    int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,account,format,file,imported,skipped,errors"

const (
	numFields    = 8
	logFile      = "import-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colAccount   = 2
	colFormat    = 3
	colFile      = 4
	colImported  = 5
	colSkipped   = 6
	colErrors    = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colAccount] = e.Account
	row[colFormat] = e.Format
	row[colFile] = e.File
	row[colImported] = strconv.Itoa(e.Imported)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colErrors] = strconv.Itoa(e.Errors)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	imported, err := strconv.Atoi(record[colImported])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing imported count %q: %w", record[colImported], err)
	}
	skipped, err := strconv.Atoi(record[colSkipped])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing skipped count %q: %w", record[colSkipped], err)
	}
	errCount, err := strconv.Atoi(record[colErrors])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing error count %q: %w", record[colErrors], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Account:   record[colAccount],
		Format:    record[colFormat],
		File:      record[colFile],
		Imported:  imported,
		Skipped:   skipped,
		Errors:    errCount,
	}, nil
}

// Append writes entries to <logsDir>/import-log.csv, creating the file and header if needed.
func Append(logsDir string, entries []Entry) error {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(logsDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <logsDir>/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(logsDir string) ([]Entry, error) {
	path := filepath.Join(logsDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
