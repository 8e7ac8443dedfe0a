package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

// TimestampField is the capture-time annotation appended to every persisted
// row and stripped again on read.
const TimestampField = "scraped_at"

// metadataFields are store-managed columns that are not part of the scraped
// table content.
var metadataFields = map[string]bool{
	"id":           true,
	TimestampField: true,
}

// Store persists the single live snapshot of the schedule table.
type Store interface {
	// ReadCurrent returns the persisted snapshot. A missing snapshot or a
	// read failure yields an empty table (logged, never fatal).
	ReadCurrent(ctx context.Context) *schedule.Table

	// ReplaceAll replaces the entire snapshot with the given table, stamping
	// every row with the current capture time. Write failures return a
	// *StoreError and leave the run aborted before notification.
	ReplaceAll(ctx context.Context, table *schedule.Table) error
}

// Op identifies which store operation failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// StoreError wraps a datastore failure with the operation that produced it.
type StoreError struct {
	Op  Op
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func writeError(err error) *StoreError {
	return &StoreError{Op: OpWrite, Err: err}
}

// tableFromRecords rebuilds a domain table from persisted records, dropping
// store metadata. Column order is not preserved by JSON objects, so columns
// come back sorted; diffing and fingerprinting are both independent of it.
func tableFromRecords(records []map[string]any) *schedule.Table {
	table := &schedule.Table{}
	seen := make(map[string]bool)

	for _, record := range records {
		row := make(schedule.Row, len(record))
		for field, value := range record {
			if metadataFields[field] {
				continue
			}
			if !seen[field] {
				seen[field] = true
				table.Columns = append(table.Columns, field)
			}
			row[field] = stringValue(value)
		}
		table.Rows = append(table.Rows, row)
	}

	sort.Strings(table.Columns)
	return table
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
