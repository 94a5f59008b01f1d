package config

import "time"

// Config holds runtime settings for the aloria client.
//
// Fields:
//   - ServerBaseURL: base URL of the aloria REST API.
//   - RequestTimeout: per-request deadline; a hung request is reported as a
//     connectivity failure once it expires.
//   - DatabasePath: sqlite DSN for the local session database.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 12 * time.Second
	c.DatabasePath = "session.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
