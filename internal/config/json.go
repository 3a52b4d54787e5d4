package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fakeye/internal/flagx"
	"github.com/dmitrijs2005/fakeye/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	StorePath          string         `json:"store_path"`
	ExtensionStorePath string         `json:"extension_store_path"`
	BridgeAddr         string         `json:"bridge_addr"`
	SyncInterval       timex.Duration `json:"sync_interval"`
	ScanInterval       timex.Duration `json:"scan_interval"`
	SessionSecret      string         `json:"session_secret"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	PlainPasswords     bool           `json:"plain_passwords"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, no JSON is loaded.
// Read or unmarshal errors panic (caller should treat a broken config file
// as unrecoverable). Zero-valued JSON fields leave the defaults untouched.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.ExtensionStorePath != "" {
		cfg.ExtensionStorePath = jc.ExtensionStorePath
	}
	if jc.BridgeAddr != "" {
		cfg.BridgeAddr = jc.BridgeAddr
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.ScanInterval.Duration != 0 {
		cfg.ScanInterval = jc.ScanInterval.Duration
	}
	if jc.SessionSecret != "" {
		cfg.SessionSecret = jc.SessionSecret
	}
	if jc.SessionTTL.Duration != 0 {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.PlainPasswords {
		cfg.PlainPasswords = true
	}
}
