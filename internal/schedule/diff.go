package schedule

// ChangeSet holds the rows that appeared in or disappeared from the schedule
// between two snapshots. Rows whose key survives but whose other fields
// changed are not represented; the diff is key-presence only.
type ChangeSet struct {
	Added   []Row `json:"added"`
	Removed []Row `json:"removed"`
}

// HasChanges reports whether any row was added or removed.
func (c *ChangeSet) HasChanges() bool {
	return c != nil && (len(c.Added) > 0 || len(c.Removed) > 0)
}

// Diff compares two snapshots by the key column of current (its first column)
// and classifies rows as added or removed.
func Diff(previous, current *Table) *ChangeSet {
	return DiffByKey(previous, current, "")
}

// DiffByKey is Diff with an explicitly named key column. An empty or unknown
// name falls back to current's first column.
//
// If previous is empty every row of current is added (bootstrap case). Added
// rows keep current's row order, removed rows keep previous's row order.
// Duplicate key values collapse to set semantics: a duplicated key in current
// that already existed in previous is invisible to the diff.
func DiffByKey(previous, current *Table, keyColumn string) *ChangeSet {
	changes := &ChangeSet{
		Added:   make([]Row, 0),
		Removed: make([]Row, 0),
	}
	if current.Empty() {
		return changes
	}
	if previous.Empty() {
		changes.Added = append(changes.Added, current.Rows...)
		return changes
	}

	key := current.KeyColumn(keyColumn)
	oldKeys := previous.KeySet(key)
	newKeys := current.KeySet(key)

	for _, row := range current.Rows {
		if !oldKeys[row[key]] {
			changes.Added = append(changes.Added, row)
		}
	}
	for _, row := range previous.Rows {
		if !newKeys[row[key]] {
			changes.Removed = append(changes.Removed, row)
		}
	}

	return changes
}
