package common

import (
	"fmt"
	"sort"
	"strings"
)

// RecordKey is the ErrorSet key for failures that belong to the record
// as a whole rather than to a single field.
const RecordKey = "_record"

// ErrorSet maps a field name (or RecordKey) to a human-readable
// violation reason. A nil or empty set means the input was clean.
type ErrorSet map[string]string

func (es ErrorSet) Add(field, message string) ErrorSet {
	if es == nil {
		es = ErrorSet{}
	}
	// First error per field wins; validators for one field run in a
	// declared order, so the earliest failure is the one reported.
	if _, exists := es[field]; !exists {
		es[field] = message
	}
	return es
}

func (es ErrorSet) AddRecord(message string) ErrorSet {
	return es.Add(RecordKey, message)
}

func (es ErrorSet) Has(field string) bool {
	_, ok := es[field]
	return ok
}

func (es ErrorSet) Empty() bool { return len(es) == 0 }

// Error renders the set deterministically, sorted by field.
func (es ErrorSet) Error() string {
	if len(es) == 0 {
		return "no errors"
	}
	keys := make([]string, 0, len(es))
	for k := range es {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, es[k]))
	}
	return strings.Join(parts, "; ")
}

func (es ErrorSet) Unwrap() error { return ErrValidation }

// RowError ties an ErrorSet to the 1-based source row it came from.
type RowError struct {
	RowIndex int      `json:"row_index"`
	Errors   ErrorSet `json:"errors"`
}

// Report aggregates the outcome of one bulk ingestion. Row-level
// failures never abort the batch; they are carried here, in source
// order, so a partially successful import is fully transparent.
type Report struct {
	CreatedCount int        `json:"created_count"`
	SkippedCount int        `json:"skipped_count"`
	RowErrors    []RowError `json:"per_row_errors"`
}

func (r *Report) RecordCreated() { r.CreatedCount++ }

func (r *Report) RecordSkipped() { r.SkippedCount++ }

func (r *Report) RecordFailure(row int, es ErrorSet) {
	r.RowErrors = append(r.RowErrors, RowError{RowIndex: row, Errors: es})
}
