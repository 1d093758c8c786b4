// Package config holds the shape of galadriel.config.json, shared by
// the CLI (which layers flags and environment variables on top via
// koanf) and the orchestrator (which reloads the file directly on a
// config-file-modified event).
package config

import (
	"encoding/json"
	"os"
)

// Config is the fully resolved set of options a compilation run or a
// dev session uses. Every field has a documented default so a missing
// galadriel.config.json is equivalent to Default().
type Config struct {
	Exclude        []string `json:"exclude"`
	AutoNaming     bool     `json:"autoNaming"`
	ResetStyles    bool     `json:"resetStyles"`
	MinifiedStyles bool     `json:"minifiedStyles"`
	Port           string   `json:"port"`
}

// Default returns the configuration used when no file and no overrides
// are present.
func Default() Config {
	return Config{
		Exclude:        []string{},
		AutoNaming:     true,
		ResetStyles:    true,
		MinifiedStyles: true,
		Port:           "0",
	}
}

// NormalizePort maps the "any port" sentinel "*" and the empty string to
// "0" (OS-assigned), leaving every other value untouched.
func NormalizePort(port string) string {
	if port == "*" || port == "" {
		return "0"
	}
	return port
}

// LoadFile reads path as JSON into Default()'s shape. A missing file is
// not an error: Default() is returned unchanged. Any field absent from
// the file keeps its default value.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Port = NormalizePort(cfg.Port)
	return cfg, nil
}
