// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/threatwatch/internal/dates"
	"github.com/pdiddy/threatwatch/internal/httputil"
	"github.com/pdiddy/threatwatch/pkg/types"
)

// restSearchBase is the NewsAPI everything endpoint. Declared as a var so
// tests can substitute an httptest server.
var restSearchBase = "https://newsapi.org/v2/everything"

const (
	maxPageSize     = 100
	defaultPageSize = 100
)

// ErrMissingAPIKey is returned when a RestSource is built without a credential.
var ErrMissingAPIKey = errors.New("REST source requires an API key (set rest.api_key or .secrets/newsapi-api-key)")

// RestSource queries a paginated REST search API. Only the first page is
// requested.
type RestSource struct {
	Client    *http.Client
	UserAgent string
	Endpoint  string
	Language  string
	PageSize  int
	apiKey    string
	limiter   *rate.Limiter
}

// NewRestSource builds a RestSource. The API key is required.
func NewRestSource(httpCfg types.HTTPConfig, cfg types.RestConfig) (*RestSource, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	return &RestSource{
		Client:    httputil.NewClient(httpCfg),
		UserAgent: httpCfg.UserAgent,
		Endpoint:  cfg.Endpoint,
		Language:  lang,
		PageSize:  clampPageSize(cfg.PageSize),
		apiKey:    strings.TrimSpace(cfg.APIKey),
		limiter:   httputil.NewLimiter(cfg.MinInterval),
	}, nil
}

// Name returns the source identifier.
func (s *RestSource) Name() string { return types.SourceREST }

// ReportsPublisher is true: each article names its publisher.
func (s *RestSource) ReportsPublisher() bool { return true }

// Search requests one page of articles sorted newest first.
func (s *RestSource) Search(ctx context.Context, query string) ([]RawArticle, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = restSearchBase
	}
	pageSize := clampPageSize(s.PageSize)

	params := url.Values{
		"q":        {query},
		"language": {s.Language},
		"pageSize": {strconv.Itoa(pageSize)},
		"sortBy":   {"publishedAt"},
		"apiKey":   {s.apiKey},
	}
	reqURL := endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.Do(ctx, s.Client, s.limiter, req)
	if err != nil {
		return nil, &NetworkError{Provider: s.Name(), Err: redactKey(err, s.apiKey)}
	}
	defer httputil.DrainClose(resp)

	var rr restResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&rr)

	// A missing status on a 200 is not a failure; only an explicit non-"ok" is.
	if resp.StatusCode != http.StatusOK || (decodeErr == nil && rr.Status != "" && rr.Status != "ok") {
		pe := &ProviderError{
			Provider:   s.Name(),
			HTTPStatus: resp.StatusCode,
			Code:       rr.Code,
			Message:    rr.Message,
		}
		if pe.Message == "" {
			pe.Message = http.StatusText(resp.StatusCode)
		}
		if rr.Status != "" && rr.Status != "ok" && pe.Code == "" {
			pe.Code = rr.Status
		}
		return nil, pe
	}
	if decodeErr != nil {
		return nil, &ProviderError{Provider: s.Name(), HTTPStatus: resp.StatusCode, Message: "parsing response: " + decodeErr.Error()}
	}

	articles := make([]RawArticle, 0, len(rr.Articles))
	for _, ra := range rr.Articles {
		if len(articles) == pageSize {
			break
		}
		a, ok := restArticle(ra)
		if !ok {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func restArticle(ra restArticleJSON) (RawArticle, bool) {
	title := cleanText(ra.Title)
	link := strings.TrimSpace(ra.URL)
	if title == "" || link == "" {
		return RawArticle{}, false
	}
	return RawArticle{
		Title:     title,
		Link:      link,
		Publisher: strings.TrimSpace(ra.Source.Name),
		Dates: []dates.Raw{
			dates.Layout("publishedAt", ra.PublishedAt, dates.RESTLayout),
		},
	}, true
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return defaultPageSize
	case n > maxPageSize:
		return maxPageSize
	default:
		return n
	}
}

// redactKey keeps the credential out of error text; *url.Error embeds the
// full request URL.
func redactKey(err error, key string) error {
	var ue *url.Error
	if key == "" || !errors.As(err, &ue) {
		return err
	}
	return &url.Error{
		Op:  ue.Op,
		URL: strings.ReplaceAll(ue.URL, url.QueryEscape(key), "REDACTED"),
		Err: ue.Err,
	}
}

// REST API JSON structures.
type restResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []restArticleJSON `json:"articles"`
}

type restArticleJSON struct {
	Source      restSource `json:"source"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt string     `json:"publishedAt"`
}

type restSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
