// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"
	"time"

	"github.com/pdiddy/threatwatch/pkg/types"
)

// Cutoff returns now minus window, falling back to the default window when
// window is not positive.
func Cutoff(now time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = types.DefaultRecencyWindow
	}
	return now.Add(-window)
}

// Keep reports whether r survives the cutoff. Undated records always do.
func Keep(r types.Record, cutoff time.Time) bool {
	return !r.HasDate() || !r.Date.Before(cutoff)
}

// FilterRecent returns the records that survive cutoff, in their original
// order, and how many were dropped.
func FilterRecent(records []types.Record, cutoff time.Time) ([]types.Record, int) {
	kept := make([]types.Record, 0, len(records))
	for _, r := range records {
		if Keep(r, cutoff) {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// SortRecords orders dated records by calendar day, newest first (oldest
// first when ascending), and places every undated record after them. The
// sort is stable, so records from the same day and undated records keep
// provider order.
func SortRecords(records []types.Record, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.HasDate() && !b.HasDate():
			return true
		case !a.HasDate() || !b.HasDate():
			return false
		}
		da, db := day(a.Date), day(b.Date)
		if ascending {
			return da.Before(db)
		}
		return da.After(db)
	})
}

// day truncates t to midnight UTC, the granularity records are exported at.
func day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
