// Package config loads daybook configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved daybook configuration.
type Config struct {
	// ServerURL is the sync server base URL. Empty means offline: pulls
	// merge with an empty server snapshot, and flush attempts fail so
	// queued items stay pending for a later retry.
	ServerURL   string
	ServerToken string

	// JournalsDir holds the per-date day files (journals/YYYY-MM-DD.md).
	JournalsDir string

	// QueuePath is the offline write queue's store file.
	QueuePath string

	// LogFile, when set, routes daemon logs to a rotating file.
	LogFile string

	FlushInterval    time.Duration
	DebounceInterval time.Duration
}

// BaseDir returns the root data directory (~/.daybook).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".daybook"), nil
}

// Load reads configuration from ~/.daybook/config.yaml (then the current
// directory), with DAYBOOK_* environment overrides. A missing config file
// is fine; defaults apply.
func Load() (*Config, error) {
	base, err := BaseDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(base)
	v.AddConfigPath(".")
	v.SetEnvPrefix("DAYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.url", "")
	v.SetDefault("server.token", "")
	v.SetDefault("journals.dir", filepath.Join(base, "journals"))
	v.SetDefault("queue.path", filepath.Join(base, "pending.json"))
	v.SetDefault("log.file", "")
	v.SetDefault("daemon.flush_interval", "30s")
	v.SetDefault("daemon.debounce", "500ms")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		ServerURL:        v.GetString("server.url"),
		ServerToken:      v.GetString("server.token"),
		JournalsDir:      v.GetString("journals.dir"),
		QueuePath:        v.GetString("queue.path"),
		LogFile:          v.GetString("log.file"),
		FlushInterval:    v.GetDuration("daemon.flush_interval"),
		DebounceInterval: v.GetDuration("daemon.debounce"),
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 500 * time.Millisecond
	}
	return cfg, nil
}
