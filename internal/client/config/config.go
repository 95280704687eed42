package config

import "time"

// Config holds runtime settings for the Biscotto storefront client.
//
// Fields:
//   - ServerURL: base URL of the REST API, including the /api prefix.
//   - StateDBPath: SQLite file that keeps the session token between runs.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string
	StateDBPath    string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000/api"
	c.StateDBPath = "biscotto.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
