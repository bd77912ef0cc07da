// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Source variant names accepted by SearchConfig.Source.
const (
	SourceFeed = "feed"
	SourceREST = "rest"
)

// DefaultRecencyWindow is the lookback applied when no window is configured.
const DefaultRecencyWindow = 90 * 24 * time.Hour

// HTTPConfig holds shared HTTP settings used by every provider client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "threatwatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search pipeline.
type SearchConfig struct {
	// Source selects the provider: "feed" or "rest".
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// RecencyWindow is how far back a dated article may be and still be kept (default 90 days).
	RecencyWindow time.Duration `json:"recency_window" yaml:"recency_window" mapstructure:"recency_window"`

	// Ascending orders dated records oldest first. Undated records stay last either way.
	Ascending bool `json:"ascending" yaml:"ascending" mapstructure:"ascending"`
}

// FeedConfig holds settings for the feed-style aggregator.
type FeedConfig struct {
	// Endpoint is the feed search URL (Google News RSS search by default).
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Language is the hl/ceid language code (fixed to "en" by default).
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// Country is the gl/ceid country code.
	Country string `json:"country" yaml:"country" mapstructure:"country"`
}

// RestConfig holds settings for the paginated REST search API.
type RestConfig struct {
	// Endpoint is the article search URL (NewsAPI /v2/everything by default).
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Language is sent as the language parameter.
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// PageSize is the number of articles requested, clamped to 1..100.
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// MinInterval is the minimum spacing between outbound calls. Zero disables pacing.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval" mapstructure:"min_interval"`

	// APIKey is the provider credential. Never serialized.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// RequestTimeout bounds a single search request end to end.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`
}

// Config groups every section. It is built once at startup and passed by
// value; nothing mutates it afterwards.
type Config struct {
	HTTP     HTTPConfig   `json:"http" yaml:"http" mapstructure:"http"`
	Search   SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Feed     FeedConfig   `json:"feed" yaml:"feed" mapstructure:"feed"`
	Rest     RestConfig   `json:"rest" yaml:"rest" mapstructure:"rest"`
	Serve    ServeConfig  `json:"serve" yaml:"serve" mapstructure:"serve"`
	LogLevel string       `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}
