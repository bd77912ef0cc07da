// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/threatwatch/internal/dates"
	"github.com/pdiddy/threatwatch/internal/httputil"
	"github.com/pdiddy/threatwatch/pkg/types"
)

// feedSearchBase is the Google News RSS search endpoint. Declared as a var
// so tests can substitute an httptest server.
var feedSearchBase = "https://news.google.com/rss/search"

// FeedSource queries a feed-style aggregator. It returns every entry the
// feed yields; there is no page size.
type FeedSource struct {
	Client    *http.Client
	UserAgent string
	Endpoint  string
	Language  string
	Country   string
}

// NewFeedSource builds a FeedSource from configuration, filling defaults.
func NewFeedSource(httpCfg types.HTTPConfig, cfg types.FeedConfig) *FeedSource {
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	country := cfg.Country
	if country == "" {
		country = "US"
	}
	return &FeedSource{
		Client:    httputil.NewClient(httpCfg),
		UserAgent: httpCfg.UserAgent,
		Endpoint:  cfg.Endpoint,
		Language:  lang,
		Country:   country,
	}
}

// Name returns the source identifier.
func (s *FeedSource) Name() string { return types.SourceFeed }

// ReportsPublisher is false: feed entries are exported without a Source column.
func (s *FeedSource) ReportsPublisher() bool { return false }

// Search fetches and parses the feed for query.
func (s *FeedSource) Search(ctx context.Context, query string) ([]RawArticle, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = feedSearchBase
	}

	params := url.Values{
		"q":    {query},
		"hl":   {s.Language},
		"gl":   {s.Country},
		"ceid": {s.Country + ":" + s.Language},
	}
	reqURL := endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.Do(ctx, s.Client, nil, req)
	if err != nil {
		return nil, &NetworkError{Provider: s.Name(), Err: err}
	}
	defer httputil.DrainClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider:   s.Name(),
			HTTPStatus: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), HTTPStatus: resp.StatusCode, Message: "parsing feed: " + err.Error()}
	}

	articles := make([]RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a, ok := feedArticle(item)
		if !ok {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// feedArticle converts one feed entry. Dates are offered parsed fields
// first, then their raw strings.
func feedArticle(item *gofeed.Item) (RawArticle, bool) {
	if item == nil {
		return RawArticle{}, false
	}
	title := cleanText(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return RawArticle{}, false
	}
	return RawArticle{
		Title: title,
		Link:  link,
		Dates: []dates.Raw{
			dates.Exact("published_parsed", item.PublishedParsed),
			dates.Exact("updated_parsed", item.UpdatedParsed),
			dates.Text("published", item.Published),
			dates.Text("updated", item.Updated),
		},
	}, true
}
