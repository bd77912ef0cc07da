// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders ordered records as CSV (the download format), JSON,
// YAML, or a terminal table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/threatwatch/pkg/types"
)

// Column headers, in output order.
const (
	ColDate   = "Date"
	ColTitle  = "Title"
	ColLink   = "Link"
	ColSource = "Source"
)

// Header returns the CSV header for the given column set.
func Header(withSource bool) []string {
	h := []string{ColDate, ColTitle, ColLink}
	if withSource {
		h = append(h, ColSource)
	}
	return h
}

// CSV writes records with a header row and no index column. Undated
// records get an empty Date field.
func CSV(w io.Writer, records []types.Record, withSource bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(withSource)); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{r.DateString(), r.Title, r.Link}
		if withSource {
			row = append(row, r.Source)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVString is CSV into a string.
func CSVString(records []types.Record, withSource bool) (string, error) {
	var b strings.Builder
	if err := CSV(&b, records, withSource); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseCSV reads a file written by CSV. It reports whether a Source column
// was present. Dates come back at midnight UTC.
func ParseCSV(r io.Reader) ([]types.Record, bool, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("reading CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, fmt.Errorf("reading CSV: missing header row")
	}

	header := rows[0]
	withSource := len(header) == 4
	if !equalHeader(header, Header(withSource)) {
		return nil, false, fmt.Errorf("unexpected CSV header %v", header)
	}

	records := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := types.Record{Title: row[1], Link: row[2]}
		if row[0] != "" {
			t, err := time.Parse(types.DateLayout, row[0])
			if err != nil {
				return nil, false, fmt.Errorf("row %d: invalid date %q: %w", i+2, row[0], err)
			}
			rec.Date = t
		}
		if withSource {
			rec.Source = row[3]
		}
		records = append(records, rec)
	}
	return records, withSource, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}
