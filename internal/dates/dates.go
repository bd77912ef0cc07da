// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates turns provider date representations into an optional UTC
// timestamp. Providers hand over an ordered list of candidates; the first
// candidate that yields a timestamp wins and failures are never errors.
package dates

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Kind tags the variant held by a Raw value.
type Kind int

const (
	// KindExact holds an already-parsed timestamp (lossless).
	KindExact Kind = iota
	// KindText holds free text that needs tolerant parsing.
	KindText
	// KindLayout holds text expected to match exactly one layout.
	KindLayout
)

// RESTLayout is the publishedAt format of the REST provider (YYYY-MM-DDTHH:MM:SSZ).
const RESTLayout = "2006-01-02T15:04:05Z"

// Raw is one candidate date as the provider shaped it.
type Raw struct {
	Kind   Kind
	Field  string
	Exact  *time.Time
	Text   string
	Layout string
}

// Exact wraps a parsed timestamp. A nil t yields an empty candidate.
func Exact(field string, t *time.Time) Raw {
	return Raw{Kind: KindExact, Field: field, Exact: t}
}

// Text wraps a free-text date.
func Text(field, s string) Raw {
	return Raw{Kind: KindText, Field: field, Text: s}
}

// Layout wraps a date string that must match layout.
func Layout(field, s, layout string) Raw {
	return Raw{Kind: KindLayout, Field: field, Text: s, Layout: layout}
}

// Empty reports whether the candidate carries no value at all.
func (r Raw) Empty() bool {
	switch r.Kind {
	case KindExact:
		return r.Exact == nil || r.Exact.IsZero()
	default:
		return strings.TrimSpace(r.Text) == ""
	}
}

// Parse extracts a timestamp from a single candidate.
func (r Raw) Parse() (time.Time, bool) {
	if r.Empty() {
		return time.Time{}, false
	}
	switch r.Kind {
	case KindExact:
		return r.Exact.UTC(), true
	case KindLayout:
		t, err := time.Parse(r.Layout, strings.TrimSpace(r.Text))
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	case KindText:
		t, err := dateparse.ParseIn(strings.TrimSpace(r.Text), time.UTC)
		if err != nil || t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Normalize walks candidates in order and returns the first timestamp found.
func Normalize(candidates []Raw) (time.Time, bool) {
	t, _, ok := NormalizeField(candidates)
	return t, ok
}

// NormalizeField is Normalize that also names the field that produced the
// timestamp, for diagnostics.
func NormalizeField(candidates []Raw) (time.Time, string, bool) {
	for _, c := range candidates {
		if t, ok := c.Parse(); ok {
			return t, c.Field, true
		}
	}
	return time.Time{}, "", false
}

// Unparsed reports whether some candidate had a value but none produced a
// timestamp.
func Unparsed(candidates []Raw) bool {
	present := false
	for _, c := range candidates {
		if c.Empty() {
			continue
		}
		present = true
		if _, ok := c.Parse(); ok {
			return false
		}
	}
	return present
}
