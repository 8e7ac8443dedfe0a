package schedule

import "testing"

func TestTableEmpty(t *testing.T) {
	var nilTable *Table
	if !nilTable.Empty() {
		t.Error("nil table should be empty")
	}
	if !(&Table{Columns: []string{"City"}}).Empty() {
		t.Error("table without rows should be empty")
	}
	if tableOf([]string{"City"}, []string{"Pune"}).Empty() {
		t.Error("table with a row should not be empty")
	}
}

func TestKeyColumn(t *testing.T) {
	table := tableOf([]string{"City", "Date"}, []string{"Pune", "2024-01-01"})

	if got := table.KeyColumn(""); got != "City" {
		t.Errorf("expected first column as default key, got %q", got)
	}
	if got := table.KeyColumn("Date"); got != "Date" {
		t.Errorf("expected named key column, got %q", got)
	}
	if got := table.KeyColumn("date"); got != "Date" {
		t.Errorf("expected case-insensitive match to return canonical name, got %q", got)
	}
	if got := table.KeyColumn("Venue"); got != "City" {
		t.Errorf("expected fallback to first column for unknown name, got %q", got)
	}
	if got := (&Table{}).KeyColumn(""); got != "" {
		t.Errorf("expected empty key for column-less table, got %q", got)
	}
}

func TestKeySet(t *testing.T) {
	table := tableOf([]string{"City", "Date"}, []string{"Pune", "1"}, []string{"Nagpur", "2"}, []string{"Pune", "3"})

	keys := table.KeySet("City")
	if len(keys) != 2 || !keys["Pune"] || !keys["Nagpur"] {
		t.Errorf("unexpected key set: %v", keys)
	}

	var nilTable *Table
	if got := nilTable.KeySet("City"); len(got) != 0 {
		t.Errorf("expected empty key set from nil table, got %v", got)
	}
}

func TestRowCells(t *testing.T) {
	row := Row{"City": "Pune", "Date": "2024-01-01"}

	cells := row.Cells([]string{"Date", "City", "Venue"})
	if cells[0] != "2024-01-01" || cells[1] != "Pune" || cells[2] != "" {
		t.Errorf("unexpected cells: %v", cells)
	}
}
