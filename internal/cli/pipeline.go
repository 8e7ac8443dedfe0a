package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pfrederiksen/schedule-watch/internal/notifier"
	"github.com/pfrederiksen/schedule-watch/internal/schedule"
	"github.com/pfrederiksen/schedule-watch/internal/scraper"
	"github.com/pfrederiksen/schedule-watch/internal/store"
)

// Notification outcomes recorded on the run result.
const (
	NotificationNone    = "none"
	NotificationSent    = "sent"
	NotificationSkipped = "skipped"
	NotificationFailed  = "failed"
)

// Pipeline wires the four stages of one monitoring run: fetch, compare,
// persist, notify. It is fully sequential and run-to-completion; overlapping
// invocations are the external scheduler's problem.
type Pipeline struct {
	Scraper   *scraper.Scraper
	Store     store.Store
	Notifier  notifier.Notifier
	KeyColumn string
	DryRun    bool
	Log       *slog.Logger
	Now       func() time.Time
}

// Result summarizes a run for output.
type Result struct {
	CheckedAt    time.Time `json:"checked_at"`
	Fetched      int       `json:"fetched"`
	Added        int       `json:"added"`
	Removed      int       `json:"removed"`
	Updated      bool      `json:"updated"`
	Notification string    `json:"notification"`
}

// Run executes one pipeline pass. The returned error means the run failed
// (fetch or store write); a notification failure is logged but does not fail
// the run, since the snapshot is already durable by then.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	result := &Result{
		CheckedAt:    now().UTC(),
		Notification: NotificationNone,
	}

	current, err := p.Scraper.FetchTable(ctx)
	if err != nil {
		p.Log.Error("failed to fetch schedule table.",
			slog.String("stage", "fetch"), slog.String("url", p.Scraper.URL()),
			slog.String("err", err.Error()))
		return nil, err
	}
	result.Fetched = len(current.Rows)
	p.Log.Info("fetched schedule table.",
		slog.String("stage", "fetch"), slog.Int("rows", len(current.Rows)))

	previous := p.Store.ReadCurrent(ctx)
	p.Log.Info("read persisted snapshot.",
		slog.String("stage", "read"), slog.Int("rows", len(previous.Rows)))

	if schedule.Fingerprint(previous) == schedule.Fingerprint(current) {
		p.Log.Info("no changes detected, data is up to date.", slog.String("stage", "compare"))
		return result, nil
	}

	changes := schedule.DiffByKey(previous, current, p.KeyColumn)
	result.Added = len(changes.Added)
	result.Removed = len(changes.Removed)
	p.Log.Info("content differs, compared row sets.",
		slog.String("stage", "compare"),
		slog.Int("added", len(changes.Added)), slog.Int("removed", len(changes.Removed)))

	if !changes.HasChanges() {
		// A reorder or re-scrape artifact: the content hash moved but no row
		// was added or removed. Treated as no functional change.
		p.Log.Info("no row changes, skipping update and notification.", slog.String("stage", "compare"))
		return result, nil
	}

	if p.DryRun {
		p.Log.Info("dry run, skipping store update.", slog.String("stage", "persist"))
	} else {
		if err := p.Store.ReplaceAll(ctx, current); err != nil {
			p.Log.Error("failed to update store, aborting before notification.",
				slog.String("stage", "persist"), slog.String("err", err.Error()))
			return nil, err
		}
		result.Updated = true
	}

	subject := fmt.Sprintf("Schedule Update Alert - %s", now().Format("2006-01-02 15:04"))
	status, err := p.Notifier.Notify(ctx, subject, changes, current)
	if err != nil {
		// Non-fatal: the snapshot is already persisted.
		p.Log.Error("failed to send notification.",
			slog.String("stage", "notify"), slog.String("err", err.Error()))
		result.Notification = NotificationFailed
		return result, nil
	}
	result.Notification = string(status)
	p.Log.Info("notification stage complete.",
		slog.String("stage", "notify"), slog.String("status", string(status)))

	return result, nil
}
