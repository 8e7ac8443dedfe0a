package schedule

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
)

// Fingerprint returns a deterministic digest over the table's row content,
// used as a cheap equality pre-check before running the key-based diff.
// Rows are serialized as JSON objects, so the digest is sensitive to row
// order and cell values but not to the column order a backing store happens
// to return. Equal digests mean "identical content"; a mismatch still needs
// the diff to decide whether anything meaningful changed.
func Fingerprint(t *Table) string {
	rows := []Row{}
	if t != nil && t.Rows != nil {
		rows = t.Rows
	}
	data, err := json.Marshal(rows)
	if err != nil {
		// Row is map[string]string; marshaling cannot fail in practice.
		return ""
	}
	h := sha1.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
