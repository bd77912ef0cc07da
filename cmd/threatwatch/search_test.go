package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/threatwatch/internal/dates"
	"github.com/pdiddy/threatwatch/internal/export"
	"github.com/pdiddy/threatwatch/internal/logging"
	"github.com/pdiddy/threatwatch/pkg/types"
)

// useRESTProvider points the package configuration at an httptest provider
// and returns a counter of requests it received.
func useRESTProvider(t *testing.T, handler http.HandlerFunc) *int {
	t.Helper()
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	setConfig(t, ts.URL)
	return &calls
}

func setConfig(t *testing.T, endpoint string) {
	t.Helper()
	oldCfg, oldLogger := cfg, logger
	t.Cleanup(func() { cfg, logger = oldCfg, oldLogger })

	cfg = types.Config{
		HTTP:   types.HTTPConfig{Timeout: 5 * time.Second},
		Search: types.SearchConfig{Source: types.SourceREST},
		Rest:   types.RestConfig{APIKey: "test-key", Endpoint: endpoint},
	}
	logger = logging.Discard()
}

func articlesBody() string {
	now := time.Now().UTC()
	return fmt.Sprintf(`{"status":"ok","articles":[
		{"source":{"name":"Old Wire"},"title":"Stale story","url":"https://o.example.com/1","publishedAt":%q},
		{"source":{"name":"Fresh Wire"},"title":"Hospital hit, again","url":"https://f.example.com/2","publishedAt":%q},
		{"source":{"name":"Vague Daily"},"title":"Undated story","url":"https://v.example.com/3","publishedAt":"last week"}
	]}`,
		now.AddDate(0, 0, -200).Format(dates.RESTLayout),
		now.Add(-2*time.Hour).Format(dates.RESTLayout),
	)
}

func okProvider(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, articlesBody())
}

func rateLimitedProvider(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTooManyRequests)
	fmt.Fprint(w, `{"status":"error","code":"rateLimited","message":"You have made too many requests recently."}`)
}

// execute runs cmd with args, capturing both output streams.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "search", RunE: runSearch}
	addSearchFlags(cmd)
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "inspect", Args: cobra.ExactArgs(1), RunE: runInspect}
	addInspectFlags(cmd)
	return cmd
}

func TestSearchCommandWritesCSV(t *testing.T) {
	useRESTProvider(t, okProvider)

	stdout, stderr, err := execute(t, newSearchCmd(), "-c", "ransomware", "-k", "healthcare")
	require.NoError(t, err)

	records, withSource, err := export.ParseCSV(bytes.NewBufferString(stdout))
	require.NoError(t, err)
	assert.True(t, withSource)
	require.Len(t, records, 2)
	assert.Equal(t, "Hospital hit, again", records[0].Title)
	assert.Equal(t, "Fresh Wire", records[0].Source)
	assert.Equal(t, "Undated story", records[1].Title)
	assert.False(t, records[1].HasDate())

	assert.Contains(t, stderr, "2 results (3 fetched, 1 older than")
	assert.NotContains(t, stderr, "Error")
}

func TestSearchCommandSave(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantFile string
	}{
		{"csv", "csv", "healthcare_ransomware_events.csv"},
		{"json", "json", "healthcare_ransomware_events.json"},
		{"table", "table", "healthcare_ransomware_events.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			useRESTProvider(t, okProvider)

			stdout, stderr, err := execute(t, newSearchCmd(),
				"-c", "ransomware_events", "-k", "healthcare", "-f", tt.format, "--save")
			require.NoError(t, err)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Saved "+tt.wantFile)

			data, err := os.ReadFile(tt.wantFile)
			require.NoError(t, err)
			assert.Contains(t, string(data), "Hospital hit, again")
		})
	}
}

func TestSearchCommandOutputFile(t *testing.T) {
	useRESTProvider(t, okProvider)
	path := filepath.Join(t.TempDir(), "out.json")

	_, _, err := execute(t, newSearchCmd(), "-c", "apt", "-k", "energy", "-f", "json", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []export.Row
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Fresh Wire", rows[0].Source)
}

func TestSearchCommandEmptyKeywordMakesNoCall(t *testing.T) {
	calls := useRESTProvider(t, okProvider)

	stdout, stderr, err := execute(t, newSearchCmd(), "-c", "malware", "-k", "   ")
	require.NoError(t, err)
	assert.Zero(t, *calls)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Enter a keyword to search.")
}

func TestSearchCommandProviderErrorIsNonFatal(t *testing.T) {
	useRESTProvider(t, rateLimitedProvider)

	stdout, stderr, err := execute(t, newSearchCmd(), "-c", "ransomware", "-k", "finance")
	require.NoError(t, err)
	assert.Equal(t, "Date,Title,Link,Source\n", stdout, "an empty export is still written")
	assert.Contains(t, stderr, "Error fetching news")
	assert.Contains(t, stderr, "rateLimited")
	assert.Contains(t, stderr, "No results found.")
}

func TestSearchCommandProviderErrorStillSaves(t *testing.T) {
	chdir(t, t.TempDir())
	useRESTProvider(t, rateLimitedProvider)

	_, stderr, err := execute(t, newSearchCmd(), "-c", "ransomware", "-k", "finance", "--save")
	require.NoError(t, err)
	assert.Contains(t, stderr, "too many requests")

	data, err := os.ReadFile("finance_ransomware_events.csv")
	require.NoError(t, err)
	assert.Equal(t, "Date,Title,Link,Source\n", string(data))
}

func TestSearchCommandNetworkErrorIsNonFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()
	setConfig(t, ts.URL)

	stdout, stderr, err := execute(t, newSearchCmd(), "-c", "breach", "-k", "retail", "-f", "table")
	require.NoError(t, err)
	assert.Equal(t, "No results found.\n", stdout)
	assert.Contains(t, stderr, "network error")
}

func TestSearchCommandCallerErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"missing category", []string{"-k", "x"}, "provide --category"},
		{"unknown category", []string{"-c", "phishing_kits", "-k", "x"}, "unknown category"},
		{"bad format", []string{"-c", "apt", "-k", "x", "-f", "xlsx"}, "unsupported format"},
		{"output and save", []string{"-c", "apt", "-k", "x", "-o", "a.csv", "--save"}, "either --output or --save"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := useRESTProvider(t, okProvider)
			_, _, err := execute(t, newSearchCmd(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Zero(t, *calls)
		})
	}
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthcare_ransomware_events.csv")
	csv := "Date,Title,Link\n2026-10-16,\"Breach at Acme, Inc.\",https://a.example.com/1\n,Undated story,https://a.example.com/2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	stdout, _, err := execute(t, newInspectCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Breach at Acme, Inc.")
	assert.Contains(t, stdout, "2 results")

	stdout, _, err = execute(t, newInspectCmd(), "-f", "csv", path)
	require.NoError(t, err)
	assert.Equal(t, csv, stdout)
}

func TestInspectCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("When,What\n"), 0o644))

	_, _, err := execute(t, newInspectCmd(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected CSV header")

	_, _, err = execute(t, newInspectCmd(), filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening")

	_, _, err = execute(t, newInspectCmd())
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (stand-in for testing.T.Chdir,
// which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
