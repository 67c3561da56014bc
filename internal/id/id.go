// Package id formats and parses import run identifiers.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatRunID returns a run ID like "20251115-001".
func FormatRunID(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%03d", day.Format("20060102"), seq)
}

// ParseRunID parses "20251115-001" into its day and sequence.
func ParseRunID(id string) (day time.Time, seq int, err error) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid run ID format: %q", id)
	}

	day, err = time.Parse("20060102", parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid date in run ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid sequence in run ID %q: %w", id, err)
	}

	return day, seq, nil
}

// NextRunID returns the run ID following the given IDs for now's day,
// starting at 001 when no prior run happened that day.
func NextRunID(now time.Time, existing []string) string {
	prefix := now.Format("20060102")
	maxSeq := 0
	for _, id := range existing {
		day, seq, err := ParseRunID(id)
		if err != nil || day.Format("20060102") != prefix {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatRunID(now, maxSeq+1)
}
