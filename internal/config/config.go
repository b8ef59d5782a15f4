package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultCLITarget = "/usr/local/bin/mdview"
	defaultLogLevel  = "info"
)

// Config holds the shell's runtime settings. Everything has a baked-in
// default; env vars (optionally from a .env file) override.
type Config struct {
	// BundleID forces the application identifier used for file
	// association. Empty means detect from the running bundle.
	BundleID string
	// CLITarget is the symlink path for the command line launcher.
	CLITarget string
	LogLevel  string
	Debug     bool
}

// Load reads settings from the environment, consulting a .env file
// in the working directory when present.
func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		CLITarget: defaultCLITarget,
		LogLevel:  defaultLogLevel,
	}

	if id := os.Getenv("MDVIEW_BUNDLE_IDENTIFIER"); id != "" {
		cfg.BundleID = id
	}

	if target := os.Getenv("MDVIEW_CLI_TARGET"); target != "" {
		cfg.CLITarget = target
	}

	if level := os.Getenv("MDVIEW_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if debug := os.Getenv("MDVIEW_DEBUG"); debug != "" {
		cfg.Debug = debug == "true" || debug == "1"
	}

	if cfg.Debug && cfg.LogLevel == defaultLogLevel {
		cfg.LogLevel = "debug"
	}

	return cfg
}
