package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pfrederiksen/schedule-watch/internal/notifier"
	"github.com/pfrederiksen/schedule-watch/internal/schedule"
	"github.com/pfrederiksen/schedule-watch/internal/scraper"
	"github.com/pfrederiksen/schedule-watch/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	current  *schedule.Table
	replaced []*schedule.Table
	writeErr error
}

func (f *fakeStore) ReadCurrent(ctx context.Context) *schedule.Table {
	if f.current == nil {
		return &schedule.Table{}
	}
	return f.current
}

func (f *fakeStore) ReplaceAll(ctx context.Context, table *schedule.Table) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.replaced = append(f.replaced, table)
	return nil
}

type fakeNotifier struct {
	subjects []string
	changes  []*schedule.ChangeSet
	status   notifier.Status
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, subject string, changes *schedule.ChangeSet, table *schedule.Table) (notifier.Status, error) {
	f.subjects = append(f.subjects, subject)
	f.changes = append(f.changes, changes)
	if f.err != nil {
		return notifier.StatusSkipped, f.err
	}
	return f.status, nil
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

const twoCityPage = `<html><body><table>
<tr><th>City</th><th>Date</th></tr>
<tr><td>Pune</td><td>2024-01-01</td></tr>
<tr><td>Nagpur</td><td>2024-01-05</td></tr>
</table></body></html>`

func newPipeline(url string, snapshots store.Store, notify notifier.Notifier) *Pipeline {
	return &Pipeline{
		Scraper:  scraper.New(url, "test-agent", 0),
		Store:    snapshots,
		Notifier: notify,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC) },
	}
}

func TestPipelineAddsRowAndNotifies(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	snapshots := &fakeStore{current: &schedule.Table{
		Columns: []string{"City", "Date"},
		Rows:    []schedule.Row{{"City": "Pune", "Date": "2024-01-01"}},
	}}
	notify := &fakeNotifier{status: notifier.StatusSent}

	result, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())
	require.NoError(t, err)

	// The store is replaced with the full new table.
	require.Len(t, snapshots.replaced, 1)
	assert.Len(t, snapshots.replaced[0].Rows, 2)

	// One added entry, zero removed; subject carries the run date.
	require.Len(t, notify.changes, 1)
	require.Len(t, notify.changes[0].Added, 1)
	assert.Equal(t, "Nagpur", notify.changes[0].Added[0]["City"])
	assert.Empty(t, notify.changes[0].Removed)
	assert.Contains(t, notify.subjects[0], "2024-01-10")

	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Removed)
	assert.True(t, result.Updated)
	assert.Equal(t, NotificationSent, result.Notification)
}

func TestPipelineIdenticalContentShortCircuits(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	snapshots := &fakeStore{current: &schedule.Table{
		Columns: []string{"City", "Date"},
		Rows: []schedule.Row{
			{"City": "Pune", "Date": "2024-01-01"},
			{"City": "Nagpur", "Date": "2024-01-05"},
		},
	}}
	notify := &fakeNotifier{status: notifier.StatusSent}

	result, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snapshots.replaced)
	assert.Empty(t, notify.subjects)
	assert.False(t, result.Updated)
	assert.Equal(t, NotificationNone, result.Notification)
}

func TestPipelineReorderIsNoFunctionalChange(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	// Same row set, different order: fingerprint differs, diff is empty.
	snapshots := &fakeStore{current: &schedule.Table{
		Columns: []string{"City", "Date"},
		Rows: []schedule.Row{
			{"City": "Nagpur", "Date": "2024-01-05"},
			{"City": "Pune", "Date": "2024-01-01"},
		},
	}}
	notify := &fakeNotifier{status: notifier.StatusSent}

	result, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snapshots.replaced, "reorder must not rewrite the store")
	assert.Empty(t, notify.subjects, "reorder must not trigger email")
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Removed)
}

func TestPipelineBootstrapPersistsEverything(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	snapshots := &fakeStore{}
	notify := &fakeNotifier{status: notifier.StatusSent}

	result, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshots.replaced, 1)
	assert.Equal(t, 2, result.Added)
	require.Len(t, notify.changes, 1)
	assert.Len(t, notify.changes[0].Added, 2)
}

func TestPipelineFetchFailureMutatesNothing(t *testing.T) {
	server := serveHTML(t, `<html><body><p>maintenance page, no table</p></body></html>`)
	snapshots := &fakeStore{}
	notify := &fakeNotifier{status: notifier.StatusSent}

	_, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())

	var fetchErr *scraper.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, scraper.KindParse, fetchErr.Kind)
	assert.Empty(t, snapshots.replaced)
	assert.Empty(t, notify.subjects)
}

func TestPipelineStoreWriteFailureAbortsBeforeNotify(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	snapshots := &fakeStore{writeErr: &store.StoreError{Op: store.OpWrite, Err: errors.New("insert failed")}}
	notify := &fakeNotifier{status: notifier.StatusSent}

	_, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Empty(t, notify.subjects, "a failed write must not be reported as a change")
}

func TestPipelineNotifyFailureDoesNotFailRun(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	snapshots := &fakeStore{}
	notify := &fakeNotifier{err: &notifier.NotifyError{Err: errors.New("provider down")}}

	result, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())

	require.NoError(t, err, "notification failure is non-fatal")
	assert.True(t, result.Updated)
	assert.Equal(t, NotificationFailed, result.Notification)
}

func TestPipelineUnconfiguredMailSkips(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	snapshots := &fakeStore{}
	notify := notifier.NewMailNotifier(notifier.MailConfig{}, server.URL,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := newPipeline(server.URL, snapshots, notify).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Updated, "store update still succeeds without email config")
	assert.Equal(t, NotificationSkipped, result.Notification)
}

func TestPipelineDryRunSkipsWrite(t *testing.T) {
	server := serveHTML(t, twoCityPage)
	snapshots := &fakeStore{}
	notify := &fakeNotifier{status: notifier.StatusSkipped}

	p := newPipeline(server.URL, snapshots, notify)
	p.DryRun = true

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snapshots.replaced)
	assert.False(t, result.Updated)
	require.Len(t, notify.changes, 1, "dry run still renders the notification")
}

func TestPipelineNamedKeyColumn(t *testing.T) {
	page := `<html><body><table>
<tr><th>Sr No</th><th>City</th></tr>
<tr><td>1</td><td>Nagpur</td></tr>
<tr><td>2</td><td>Pune</td></tr>
</table></body></html>`
	server := serveHTML(t, page)
	// Serial numbers shifted; keyed by City nothing changed but content did.
	snapshots := &fakeStore{current: &schedule.Table{
		Columns: []string{"Sr No", "City"},
		Rows: []schedule.Row{
			{"Sr No": "1", "City": "Pune"},
			{"Sr No": "2", "City": "Nagpur"},
		},
	}}
	notify := &fakeNotifier{status: notifier.StatusSent}

	p := newPipeline(server.URL, snapshots, notify)
	p.KeyColumn = "City"

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Removed)
	assert.Empty(t, snapshots.replaced)
}
