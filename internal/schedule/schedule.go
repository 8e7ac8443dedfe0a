package schedule

import "strings"

// Row is a single table row, mapping a column name to the trimmed cell text.
// All values stay as plain text; no typed parsing is done.
type Row map[string]string

// Cells returns the row's values in the given column order. Missing columns
// yield empty strings, so callers can render rows against any header set.
func (r Row) Cells(columns []string) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = r[col]
	}
	return cells
}

// Table is one scraped snapshot of the schedule table: the header-derived
// column names in page order, and the data rows in page order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// KeyColumn returns the column used to identify rows for diffing. If name is
// non-empty and present in the table it wins; otherwise the first column is
// used (the page's key column by convention).
func (t *Table) KeyColumn(name string) string {
	if name != "" {
		for _, col := range t.Columns {
			if strings.EqualFold(col, name) {
				return col
			}
		}
	}
	if len(t.Columns) == 0 {
		return ""
	}
	return t.Columns[0]
}

// KeySet collects the distinct values of the given column across all rows.
func (t *Table) KeySet(column string) map[string]bool {
	if t == nil {
		return map[string]bool{}
	}
	keys := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		keys[row[column]] = true
	}
	return keys
}
