// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs one category search end to end: build the query, call
// the configured source once, normalize dates, drop stale articles, and
// order what is left. Each call is independent and keeps no state.
package search

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/threatwatch/internal/category"
	"github.com/pdiddy/threatwatch/internal/dates"
	"github.com/pdiddy/threatwatch/internal/logging"
	"github.com/pdiddy/threatwatch/internal/source"
	"github.com/pdiddy/threatwatch/pkg/types"
)

// Request is one user action: a category and a sector keyword.
type Request struct {
	Category category.Category
	Keyword  string
}

// Options tune a run. The zero value uses the default recency window, the
// wall clock, and no logging.
type Options struct {
	Window    time.Duration
	Ascending bool
	Now       func() time.Time
	Logger    *log.Logger
}

// OptionsFromConfig maps the search section of the configuration.
func OptionsFromConfig(cfg types.SearchConfig, logger *log.Logger) Options {
	return Options{
		Window:    cfg.RecencyWindow,
		Ascending: cfg.Ascending,
		Logger:    logger,
	}
}

// Result is the answer to one Request.
type Result struct {
	CategoryID    string
	CategoryLabel string
	Keyword       string
	Query         string
	Source        string

	// Records is the ordered output.
	Records []types.Record

	// Publisher reports whether records carry a Source value.
	Publisher bool

	// Skipped is set when the keyword was empty and nothing was searched.
	Skipped bool

	// Err holds a surfaced *source.NetworkError or *source.ProviderError.
	// Records is empty whenever Err is set.
	Err error

	Fetched int
	Stale   int
	Undated int
	Cutoff  time.Time
}

// Empty reports whether there is nothing to show.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Run executes req against src. Provider and transport failures do not
// escape: they are logged and returned in Result.Err with no records.
func Run(ctx context.Context, src source.NewsSource, req Request, opts Options) Result {
	logger := logging.OrDiscard(opts.Logger)
	res := Result{
		CategoryID:    req.Category.ID,
		CategoryLabel: req.Category.Label,
		Keyword:       req.Keyword,
		Source:        src.Name(),
		Publisher:     src.ReportsPublisher(),
	}

	if !category.HasKeyword(req.Keyword) {
		res.Skipped = true
		logger.Debug("empty keyword, search skipped", "category", req.Category.ID)
		return res
	}

	res.Query = category.BuildQuery(req.Category, req.Keyword)
	logger.Debug("searching", "source", src.Name(), "query", res.Query)

	articles, err := src.Search(ctx, res.Query)
	if err != nil {
		res.Err = err
		logger.Warn("search failed", "source", src.Name(), "category", req.Category.ID, "err", err)
		return res
	}
	res.Fetched = len(articles)

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	res.Cutoff = Cutoff(now(), opts.Window)

	records := BuildRecords(articles, res.Publisher, logger)
	records, res.Stale = FilterRecent(records, res.Cutoff)
	SortRecords(records, opts.Ascending)

	for _, r := range records {
		if !r.HasDate() {
			res.Undated++
		}
	}
	res.Records = records

	logger.Info("search complete",
		"source", src.Name(),
		"category", req.Category.ID,
		"keyword", req.Keyword,
		"fetched", res.Fetched,
		"kept", len(records),
		"stale", res.Stale,
		"undated", res.Undated,
	)
	return res
}

// BuildRecords normalizes each article's date and assembles records in
// provider order. The publisher is carried only when withPublisher is set.
func BuildRecords(articles []source.RawArticle, withPublisher bool, logger *log.Logger) []types.Record {
	logger = logging.OrDiscard(logger)
	records := make([]types.Record, 0, len(articles))
	for _, a := range articles {
		r := types.Record{
			Title: a.Title,
			Link:  a.Link,
		}
		if t, ok := dates.Normalize(a.Dates); ok {
			r.Date = t
		} else if dates.Unparsed(a.Dates) {
			logger.Debug("unparseable date, keeping article undated", "link", a.Link)
		}
		if withPublisher {
			r.Source = a.Publisher
		}
		records = append(records, r)
	}
	return records
}
