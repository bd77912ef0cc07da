// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source runs a search expression against a news provider and
// returns provider-shaped articles. Each provider (feed aggregator, REST
// search API) implements NewsSource.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/threatwatch/internal/dates"
	"github.com/pdiddy/threatwatch/pkg/types"
)

// NewsSource searches a single provider.
type NewsSource interface {
	// Name returns the provider identifier ("feed" or "rest").
	Name() string

	// ReportsPublisher reports whether articles carry a publisher name.
	ReportsPublisher() bool

	// Search runs query and returns articles in provider order. Transport
	// failures are *NetworkError; non-success responses are *ProviderError.
	Search(ctx context.Context, query string) ([]RawArticle, error)
}

// RawArticle is an article as the provider shaped it. Title and Link are
// always non-empty; adapters drop entries missing either.
type RawArticle struct {
	Title     string
	Link      string
	Publisher string
	// Dates lists candidate date fields in priority order.
	Dates []dates.Raw
}

// NetworkError reports that the provider could not be reached.
type NetworkError struct {
	Provider string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProviderError reports a non-success answer from the provider.
type ProviderError struct {
	Provider   string
	HTTPStatus int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: provider error", e.Provider)
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.HTTPStatus)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// IsNetwork reports whether err is or wraps a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsProvider reports whether err is or wraps a *ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// New builds the source selected by cfg.Search.Source.
func New(cfg types.Config) (NewsSource, error) {
	switch strings.ToLower(cfg.Search.Source) {
	case types.SourceFeed, "":
		return NewFeedSource(cfg.HTTP, cfg.Feed), nil
	case types.SourceREST:
		src, err := NewRestSource(cfg.HTTP, cfg.Rest)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source %q: use %s or %s", cfg.Search.Source, types.SourceFeed, types.SourceREST)
	}
}

// cleanText collapses runs of whitespace. Headlines are otherwise kept as
// the provider sent them: a title about "<script>" injection is text, not
// markup.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
