// Package config loads ucw settings. Precedence, lowest to highest: a
// YAML config file (UCW_CONFIG or ./ucw.yaml), then UCW_* environment
// variables. A .env file in the working directory is folded into the
// environment first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for ucw.
type Config struct {
	Platform           string   `yaml:"platform"`
	HelpTimeoutSeconds int      `yaml:"help_timeout_seconds"`
	ExecTimeoutSeconds int      `yaml:"exec_timeout_seconds"`
	PosixHelpFlags     []string `yaml:"posix_help_flags"`
	PosixManFallback   bool     `yaml:"posix_man_fallback"`
	WindowsHelpFlags   []string `yaml:"windows_help_flags"`
	MaxOutputLines     int      `yaml:"max_output_lines"`
	MaxOutputBytes     int      `yaml:"max_output_bytes"`
	HistoryPath        string   `yaml:"history_path"`
	LogLevel           string   `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Platform:           "auto",
		HelpTimeoutSeconds: 10,
		ExecTimeoutSeconds: 30,
		PosixHelpFlags:     nil, // parser defaults apply
		PosixManFallback:   true,
		WindowsHelpFlags:   nil,
		MaxOutputLines:     2000,
		MaxOutputBytes:     51200,
		HistoryPath:        "",
		LogLevel:           "INFO",
	}
}

// Load builds the effective configuration from file and environment.
func Load() (Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Defaults()
	if err := loadFile(&cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if cfg.HelpTimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("help timeout must be positive, got %d", cfg.HelpTimeoutSeconds)
	}
	if cfg.ExecTimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("exec timeout must be positive, got %d", cfg.ExecTimeoutSeconds)
	}
	return cfg, nil
}

func loadFile(cfg *Config) error {
	path := os.Getenv("UCW_CONFIG")
	explicit := path != ""
	if path == "" {
		path = "ucw.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Platform = envOrDefault("UCW_PLATFORM", cfg.Platform)
	cfg.HelpTimeoutSeconds = envIntOrDefault("UCW_HELP_TIMEOUT_SECONDS", cfg.HelpTimeoutSeconds)
	cfg.ExecTimeoutSeconds = envIntOrDefault("UCW_EXEC_TIMEOUT_SECONDS", cfg.ExecTimeoutSeconds)
	cfg.PosixHelpFlags = envListOrDefault("UCW_POSIX_HELP_FLAGS", cfg.PosixHelpFlags)
	cfg.PosixManFallback = envBoolOrDefault("UCW_POSIX_MAN_FALLBACK", cfg.PosixManFallback)
	cfg.WindowsHelpFlags = envListOrDefault("UCW_WINDOWS_HELP_FLAGS", cfg.WindowsHelpFlags)
	cfg.MaxOutputLines = envIntOrDefault("UCW_MAX_OUTPUT_LINES", cfg.MaxOutputLines)
	cfg.MaxOutputBytes = envIntOrDefault("UCW_MAX_OUTPUT_BYTES", cfg.MaxOutputBytes)
	cfg.HistoryPath = envOrDefault("UCW_HISTORY_PATH", cfg.HistoryPath)
	cfg.LogLevel = envOrDefault("UCW_LOG_LEVEL", cfg.LogLevel)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}

func envListOrDefault(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
