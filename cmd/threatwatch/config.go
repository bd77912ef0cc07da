package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/threatwatch/internal/secrets"
	"github.com/pdiddy/threatwatch/internal/source"
	"github.com/pdiddy/threatwatch/pkg/types"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultMinInterval    = 1 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// setDefaults registers every configuration key so that environment
// variables resolve even when no config file sets them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", defaultTimeout)
	v.SetDefault("http.user_agent", "threatwatch/"+version)

	v.SetDefault("search.source", types.SourceFeed)
	v.SetDefault("search.recency_window", types.DefaultRecencyWindow)
	v.SetDefault("search.ascending", false)

	v.SetDefault("feed.endpoint", "")
	v.SetDefault("feed.language", "en")
	v.SetDefault("feed.country", "US")

	v.SetDefault("rest.endpoint", "")
	v.SetDefault("rest.language", "en")
	v.SetDefault("rest.page_size", 100)
	v.SetDefault("rest.min_interval", defaultMinInterval)
	v.SetDefault("rest.api_key", "")

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.request_timeout", defaultRequestTimeout)

	v.SetDefault("log_level", "info")
}

// buildConfig resolves defaults, config file, environment (THREATWATCH_*),
// and bound flags into a Config. A REST key missing from configuration is
// taken from the secrets directory.
func buildConfig(v *viper.Viper, loaded map[string]string) (types.Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("THREATWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	c.Search.Source = strings.ToLower(strings.TrimSpace(c.Search.Source))
	switch c.Search.Source {
	case types.SourceFeed, types.SourceREST:
	default:
		return types.Config{}, fmt.Errorf("invalid search.source %q: use %s or %s", c.Search.Source, types.SourceFeed, types.SourceREST)
	}
	if c.Search.RecencyWindow < 0 {
		return types.Config{}, fmt.Errorf("invalid search.recency_window %s: must not be negative", c.Search.RecencyWindow)
	}

	if c.Rest.APIKey == "" {
		if key, err := secrets.Require(loaded, secrets.KeyNewsAPI); err == nil {
			c.Rest.APIKey = key
		}
	}
	return c, nil
}

// newSource builds the configured provider.
func newSource(c types.Config) (source.NewsSource, error) {
	src, err := source.New(c)
	if err != nil {
		return nil, fmt.Errorf("building %s source: %w", c.Search.Source, err)
	}
	return src, nil
}
