package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat specifies the output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run result in the specified format.
func WriteOutput(w io.Writer, result *Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeText(w io.Writer, result *Result) error {
	fmt.Fprintf(w, "Checked at: %s\n", result.CheckedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Fetched rows: %d\n", result.Fetched)

	if result.Added == 0 && result.Removed == 0 {
		fmt.Fprintln(w, "No changes detected.")
		return nil
	}

	fmt.Fprintf(w, "Added rows: %d\n", result.Added)
	fmt.Fprintf(w, "Removed rows: %d\n", result.Removed)
	if result.Updated {
		fmt.Fprintln(w, "Snapshot updated.")
	} else {
		fmt.Fprintln(w, "Snapshot not updated.")
	}
	fmt.Fprintf(w, "Notification: %s\n", result.Notification)
	return nil
}
