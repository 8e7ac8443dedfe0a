package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

const restTimeout = 30 * time.Second

// RestStore persists the snapshot in a row-oriented REST datastore exposing a
// PostgREST-style collection API (select-all, delete-matching, insert-one).
type RestStore struct {
	client     *resty.Client
	collection string
	log        *slog.Logger
	now        func() time.Time
}

// NewRestStore creates a store client for the given base URL, access key and
// collection name. The key is sent both as an apikey header and a bearer
// token, which is what PostgREST-style services expect.
func NewRestStore(baseURL, apiKey, collection string, log *slog.Logger) *RestStore {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(restTimeout).
		SetHeader("apikey", apiKey).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json")

	return &RestStore{
		client:     client,
		collection: collection,
		log:        log,
		now:        time.Now,
	}
}

func (s *RestStore) collectionPath() string {
	return "/rest/v1/" + s.collection
}

// ReadCurrent fetches all rows from the collection. Any failure is logged
// and degrades to an empty table, so a broken read is treated as "no prior
// snapshot" rather than aborting the run.
func (s *RestStore) ReadCurrent(ctx context.Context) *schedule.Table {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		Get(s.collectionPath())
	if err != nil {
		s.log.Error("failed to read snapshot from store, assuming empty.",
			slog.String("collection", s.collection), slog.String("err", err.Error()))
		return &schedule.Table{}
	}
	if !resp.IsSuccess() {
		s.log.Error("store read returned an error status, assuming empty.",
			slog.String("collection", s.collection), slog.Int("status", resp.StatusCode()))
		return &schedule.Table{}
	}

	var records []map[string]any
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		s.log.Error("failed to decode snapshot rows, assuming empty.",
			slog.String("collection", s.collection), slog.String("err", err.Error()))
		return &schedule.Table{}
	}

	return tableFromRecords(records)
}

// ReplaceAll deletes every existing row and inserts the new table row by row,
// each stamped with the capture time. The delete and the inserts are separate
// requests; a reader hitting the window between them can observe a partially
// written snapshot, which the single external scheduler makes acceptable here.
func (s *RestStore) ReplaceAll(ctx context.Context, table *schedule.Table) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("id", "neq.0").
		Delete(s.collectionPath())
	if err != nil {
		return writeError(fmt.Errorf("deleting existing rows: %w", err))
	}
	if !resp.IsSuccess() {
		return writeError(fmt.Errorf("deleting existing rows: status %d", resp.StatusCode()))
	}

	scrapedAt := s.now().UTC().Format(time.RFC3339)
	for i, row := range table.Rows {
		record := make(map[string]string, len(row)+1)
		for field, value := range row {
			record[field] = value
		}
		record[TimestampField] = scrapedAt

		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(record).
			Post(s.collectionPath())
		if err != nil {
			return writeError(fmt.Errorf("inserting row %d: %w", i, err))
		}
		if !resp.IsSuccess() {
			return writeError(fmt.Errorf("inserting row %d: status %d", i, resp.StatusCode()))
		}
	}

	s.log.Info("replaced snapshot in store.",
		slog.String("collection", s.collection), slog.Int("rows", len(table.Rows)))
	return nil
}
