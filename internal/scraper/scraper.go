package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

const (
	// DefaultScheduleURL is the public page carrying the monitored table.
	DefaultScheduleURL = "https://www.maharashtranursingcouncil.org/ScheduleCNE.aspx"

	// DefaultUserAgent is a browser-like identifier; the source site rejects
	// default Go client identifiers.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	DefaultTimeout = 30 * time.Second
)

// Scraper fetches the schedule page and extracts its first HTML table.
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
}

// New creates a Scraper. An empty url or userAgent and a zero timeout fall
// back to the package defaults.
func New(url, userAgent string, timeout time.Duration) *Scraper {
	if url == "" {
		url = DefaultScheduleURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		url:       url,
		userAgent: userAgent,
	}
}

// URL returns the page this scraper targets.
func (s *Scraper) URL() string {
	return s.url
}

// FetchTable fetches the schedule page and parses its first table. Transport
// failures and non-2xx statuses return a network FetchError; a page without a
// usable table returns a parse FetchError.
func (s *Scraper) FetchTable(ctx context.Context) (*schedule.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, networkError(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, networkError(fmt.Errorf("fetching page: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, networkError(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	return s.parseTable(resp.Body)
}

// parseTable extracts the first <table> from HTML: first row as headers,
// every following row as data. Rows with no non-empty cells are dropped,
// short rows are padded to the header width and long rows truncated to it.
func (s *Scraper) parseTable(r io.Reader) (*schedule.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, parseError(fmt.Errorf("parsing HTML: %w", err))
	}

	tableSel := doc.Find("table").First()
	if tableSel.Length() == 0 {
		return nil, parseError(fmt.Errorf("no <table> element on page"))
	}

	rows := tableSel.Find("tr")
	if rows.Length() == 0 {
		return nil, parseError(fmt.Errorf("table has no rows"))
	}

	columns := cellTexts(rows.First())
	if !anyNonEmpty(columns) {
		return nil, parseError(fmt.Errorf("table header row is empty"))
	}

	table := &schedule.Table{Columns: columns}
	rows.Slice(1, rows.Length()).Each(func(i int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		if !anyNonEmpty(cells) {
			return
		}
		row := make(schedule.Row, len(columns))
		for j, col := range columns {
			if j < len(cells) {
				row[col] = cells[j]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	})

	if table.Empty() {
		return nil, parseError(fmt.Errorf("table has no data rows"))
	}

	return table, nil
}

// cellTexts returns the trimmed text of every th/td cell in a row.
func cellTexts(tr *goquery.Selection) []string {
	texts := make([]string, 0)
	tr.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}

func anyNonEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
