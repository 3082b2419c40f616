package names

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CSVFeed fetches the mapping table from a remote CSV export. Expected
// columns (header-keyed, order free): raw_label, canonical_label, series.
type CSVFeed struct {
	URL    string
	Client *http.Client
}

func NewCSVFeed(url string) *CSVFeed {
	return &CSVFeed{
		URL:    url,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *CSVFeed) Name() string { return "csv-feed" }

func (f *CSVFeed) FetchAll(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", f.URL, resp.StatusCode)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var entries []Entry
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) == 0 {
			continue
		}

		raw := valueAt(header, row, "raw_label")
		label := valueAt(header, row, "canonical_label")
		if raw == "" || label == "" {
			continue
		}
		entries = append(entries, Entry{
			Key:    raw,
			Label:  label,
			Series: valueAt(header, row, "series"),
		})
	}
	return entries, nil
}

// TableSource reads the mapping table from the local store, for deployments
// that import the feed out of band (cmd/import-csv).
type TableSource struct {
	DB *sql.DB
}

func (s *TableSource) Name() string { return "boss-names-table" }

func (s *TableSource) FetchAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT raw_label, canonical_label, COALESCE(series, '')
		FROM boss_names
	`)
	if err != nil {
		return nil, fmt.Errorf("query boss_names: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Label, &e.Series); err != nil {
			return nil, fmt.Errorf("scan boss_names: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return entries, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
