package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

// Status is the outcome of a notification attempt that did not error.
type Status string

const (
	// StatusSent means the report was handed to the email provider.
	StatusSent Status = "sent"
	// StatusSkipped means notification was not configured; the pipeline
	// treats this as a graceful no-op, not a failure.
	StatusSkipped Status = "skipped"
)

// Notifier delivers a change report for the monitored schedule.
type Notifier interface {
	Notify(ctx context.Context, subject string, changes *schedule.ChangeSet, table *schedule.Table) (Status, error)
}

// NotifyError is a delivery failure. It never fails the run: by the time a
// notification is attempted the snapshot has already been persisted.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify: %v", e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}
