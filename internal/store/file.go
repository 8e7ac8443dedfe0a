package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

// FileStore keeps the snapshot as a JSON file on disk. It backs runs without
// datastore credentials and the --snapshot-file flag.
type FileStore struct {
	path string
	log  *slog.Logger
	now  func() time.Time
}

type fileSnapshot struct {
	UpdatedAt string           `json:"updated_at"`
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed. A leading ~/ expands to the home directory.
func NewFileStore(path string, log *slog.Logger) (*FileStore, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	return &FileStore{path: path, log: log, now: time.Now}, nil
}

// ReadCurrent loads the snapshot file. A missing file means no prior
// snapshot; any other failure is logged and degrades to an empty table.
func (s *FileStore) ReadCurrent(ctx context.Context) *schedule.Table {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("failed to read snapshot file, assuming empty.",
				slog.String("path", s.path), slog.String("err", err.Error()))
		}
		return &schedule.Table{}
	}

	var snap fileSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Error("failed to parse snapshot file, assuming empty.",
			slog.String("path", s.path), slog.String("err", err.Error()))
		return &schedule.Table{}
	}

	table := tableFromRecords(snap.Rows)
	// The file keeps the original column order; prefer it over the sorted
	// reconstruction when it still covers every field.
	if len(snap.Columns) == len(table.Columns) {
		table.Columns = snap.Columns
	}
	return table
}

// ReplaceAll writes the whole table to the snapshot file, stamping every row
// with the capture time. The write replaces the file in one operation, so
// there is no partially-updated state on disk.
func (s *FileStore) ReplaceAll(ctx context.Context, table *schedule.Table) error {
	scrapedAt := s.now().UTC().Format(time.RFC3339)
	snap := fileSnapshot{
		UpdatedAt: scrapedAt,
		Columns:   table.Columns,
		Rows:      make([]map[string]any, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		record := make(map[string]any, len(row)+1)
		for field, value := range row {
			record[field] = value
		}
		record[TimestampField] = scrapedAt
		snap.Rows = append(snap.Rows, record)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return writeError(fmt.Errorf("encoding snapshot: %w", err))
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return writeError(fmt.Errorf("writing snapshot: %w", err))
	}

	s.log.Info("replaced snapshot file.",
		slog.String("path", s.path), slog.Int("rows", len(table.Rows)))
	return nil
}
