package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	internalconfig "github.com/patrickgunnar/galadrielcss/internal/config"
)

var k = koanf.New(".")

// activeCmd holds the cobra command that was executed, used to check
// whether a flag was explicitly set on the command line.
var activeCmd *cobra.Command

// loadConfig loads configuration with precedence: flags > env > file >
// defaults. Must be called after cobra parses flags (in PreRunE).
func loadConfig(cmd *cobra.Command) error {
	activeCmd = cmd

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = "galadriel.config.json"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), json.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("GALADRIELCSS_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GALADRIELCSS_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildConfig constructs internal/config's Config from koanf state,
// falling back to internalconfig.Default() for every unset field.
func buildConfig() internalconfig.Config {
	defaults := internalconfig.Default()

	cfg := internalconfig.Config{
		Exclude:        defaults.Exclude,
		AutoNaming:     getBoolWithFallback("auto-naming", "autoNaming", defaults.AutoNaming),
		ResetStyles:    getBoolWithFallback("reset-styles", "resetStyles", defaults.ResetStyles),
		MinifiedStyles: getBoolWithFallback("minified-styles", "minifiedStyles", defaults.MinifiedStyles),
		Port:           getStringWithFallback("port", "port", defaults.Port),
	}

	if excl := k.Strings("exclude"); len(excl) > 0 {
		cfg.Exclude = excl
	}
	cfg.Port = internalconfig.NormalizePort(cfg.Port)

	return cfg
}

func flagChanged(flagKey string) bool {
	if activeCmd == nil {
		return false
	}
	if f := activeCmd.Flags().Lookup(flagKey); f != nil {
		return f.Changed
	}
	if f := activeCmd.InheritedFlags().Lookup(flagKey); f != nil {
		return f.Changed
	}
	return false
}

func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if flagChanged(flagKey) {
		if v := k.String(flagKey); v != "" {
			return v
		}
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if flagChanged(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}
