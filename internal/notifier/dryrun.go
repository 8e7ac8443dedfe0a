package notifier

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

// DryRunNotifier prints the report that would be emailed without sending it.
type DryRunNotifier struct {
	Out       io.Writer
	SourceURL string
	Now       func() time.Time
}

// NewDryRunNotifier creates a dry-run notifier writing to out.
func NewDryRunNotifier(out io.Writer, sourceURL string) *DryRunNotifier {
	return &DryRunNotifier{Out: out, SourceURL: sourceURL, Now: time.Now}
}

// Notify prints the subject and rendered report body.
func (n *DryRunNotifier) Notify(ctx context.Context, subject string, changes *schedule.ChangeSet, table *schedule.Table) (Status, error) {
	body, err := BuildReport(changes, table, n.SourceURL, n.Now())
	if err != nil {
		return StatusSkipped, &NotifyError{Err: err}
	}
	fmt.Fprintf(n.Out, "--- Email (dry run) ---\nSubject: %s\n\n%s\n", subject, body)
	return StatusSkipped, nil
}
