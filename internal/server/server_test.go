// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/threatwatch/internal/dates"
	"github.com/pdiddy/threatwatch/internal/export"
	"github.com/pdiddy/threatwatch/internal/source"
	"github.com/pdiddy/threatwatch/pkg/types"
)

type stubSource struct {
	publisher bool
	articles  []source.RawArticle
	err       error
	calls     int
}

func (s *stubSource) Name() string           { return "stub" }
func (s *stubSource) ReportsPublisher() bool { return s.publisher }

func (s *stubSource) Search(context.Context, string) ([]source.RawArticle, error) {
	s.calls++
	return s.articles, s.err
}

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, src *stubSource) *httptest.Server {
	t.Helper()
	s := New(types.Config{}, src, nil)
	s.now = func() time.Time { return fixedNow }
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func at(t time.Time) []dates.Raw { return []dates.Raw{dates.Exact("published_parsed", &t)} }

func sampleArticles() []source.RawArticle {
	return []source.RawArticle{
		{Title: "Older", Link: "https://n.example.com/older", Publisher: "Wire", Dates: at(fixedNow.AddDate(0, 0, -3))},
		{Title: "Ancient", Link: "https://n.example.com/ancient", Dates: at(fixedNow.AddDate(-1, 0, 0))},
		{Title: "Breach at Acme, Inc.", Link: "https://n.example.com/new", Publisher: "Daily", Dates: at(fixedNow.Add(-time.Hour))},
	}
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubSource{})
	resp := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, &stubSource{})
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t, &stubSource{})
	resp := get(t, ts.URL+"/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []categoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 6)
	assert.Equal(t, "apt_campaigns", got[0].ID)
	assert.NotEmpty(t, got[0].Expression)
}

func TestSearchCSVAttachment(t *testing.T) {
	src := &stubSource{articles: sampleArticles()}
	ts := newTestServer(t, src)

	resp := get(t, ts.URL+"/search?category=ransomware&keyword=healthcare")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="healthcare_ransomware_events.csv"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	assert.Empty(t, resp.Header.Get(HeaderError))

	records, withSource, err := export.ParseCSV(resp.Body)
	require.NoError(t, err)
	assert.False(t, withSource)
	require.Len(t, records, 2)
	assert.Equal(t, "Breach at Acme, Inc.", records[0].Title)
	assert.Equal(t, "Older", records[1].Title)
}

func TestSearchJSONWithPublisher(t *testing.T) {
	src := &stubSource{publisher: true, articles: sampleArticles()}
	ts := newTestServer(t, src)

	resp := get(t, ts.URL+"/search?category=data_breaches&keyword=retail&format=json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got searchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "data_breaches", got.Category)
	assert.Equal(t, "stub", got.Source)
	assert.Equal(t, 3, got.Fetched)
	assert.Equal(t, 1, got.Stale)
	assert.Empty(t, got.Error)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "Daily", got.Records[0].Source)
	assert.Equal(t, "2026-10-17", got.Records[0].Date)
	assert.True(t, strings.HasSuffix(got.Query, ") retail"))
}

func TestSearchEmptyKeywordIsNoContent(t *testing.T) {
	src := &stubSource{articles: sampleArticles()}
	ts := newTestServer(t, src)

	resp := get(t, ts.URL+"/search?category=malware&keyword=%20%20")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, src.calls)
}

func TestSearchProviderErrorIsNonFatal(t *testing.T) {
	src := &stubSource{err: &source.ProviderError{Provider: "rest", HTTPStatus: 429, Code: "rateLimited", Message: "slow down"}}
	ts := newTestServer(t, src)

	resp := get(t, ts.URL+"/search?category=apt&keyword=energy&format=json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got searchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Error, "slow down")
	assert.Empty(t, got.Records)

	resp = get(t, ts.URL+"/search?category=apt&keyword=energy")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(HeaderError), "rateLimited")
	records, _, err := export.ParseCSV(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchBadRequests(t *testing.T) {
	ts := newTestServer(t, &stubSource{})
	for _, path := range []string{
		"/search?category=phishing_kits&keyword=x",
		"/search?keyword=x",
		"/search?category=apt&keyword=x&format=table",
		"/search?category=apt&keyword=x&format=pdf",
	} {
		resp := get(t, ts.URL+path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)

		var body errorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body), path)
		assert.NotEmpty(t, body.Error, path)
	}
}

func TestSearchYAML(t *testing.T) {
	ts := newTestServer(t, &stubSource{articles: sampleArticles()})
	resp := get(t, ts.URL+"/search?category=influence&keyword=elections&format=yaml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := New(types.Config{Serve: types.ServeConfig{Addr: "127.0.0.1:0"}}, &stubSource{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
