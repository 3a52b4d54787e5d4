// Package config holds runtime settings for the FakEye binaries, assembled
// from defaults, an optional JSON file and command-line flags, in that
// order of precedence.
package config

import "time"

// Config holds runtime settings shared by the host app and the extension
// producer.
//
// Fields:
//   - StorePath: path of the host's storage database.
//   - ExtensionStorePath: path of the producer's own storage area.
//   - BridgeAddr: host:port the bridge endpoint listens on / dials.
//   - SyncInterval: fallback period between reconciliation passes.
//   - ScanInterval: how often the producer fabricates a new scan.
//   - SessionSecret: key signing persisted session tokens.
//   - SessionTTL: how long a persisted session stays valid.
//   - PlainPasswords: store credentials verbatim instead of bcrypt-hashed.
//     Demo/test switch only.
type Config struct {
	StorePath          string
	ExtensionStorePath string
	BridgeAddr         string
	SyncInterval       time.Duration
	ScanInterval       time.Duration
	SessionSecret      string
	SessionTTL         time.Duration
	PlainPasswords     bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorePath = "fakeye.db"
	c.ExtensionStorePath = "extension.db"
	c.BridgeAddr = "127.0.0.1:8733"
	c.SyncInterval = 30 * time.Second
	c.ScanInterval = 45 * time.Second
	c.SessionSecret = "fakeye-dev-secret"
	c.SessionTTL = 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
