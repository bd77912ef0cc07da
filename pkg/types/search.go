// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the threatwatch pipeline:
// the canonical Record every provider is normalized into, and the
// configuration sections read at startup.
package types

import "time"

// DateLayout is the calendar-date rendering used in every export format.
const DateLayout = "2006-01-02"

// Record is one normalized news article. Title and Link are always set;
// Date and Source may be absent.
type Record struct {
	// Date is the publication timestamp in UTC. The zero value means the
	// provider gave no usable date.
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// Title is the article headline with markup stripped.
	Title string `json:"title" yaml:"title"`

	// Link is the article URL as returned by the provider.
	Link string `json:"link" yaml:"link"`

	// Source is the publisher name, when the provider reports one.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// HasDate reports whether the record carries a publication date.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// DateString returns the calendar date, or "" when the record is undated.
func (r Record) DateString() string {
	if !r.HasDate() {
		return ""
	}
	return r.Date.UTC().Format(DateLayout)
}
