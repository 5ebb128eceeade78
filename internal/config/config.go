// Package config reads process settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"record-linker/options"
)

// Environment variables understood by the CLI.
const (
	EnvSeqURL        = "LINKER_SEQ_URL"
	EnvLogLevel      = "LINKER_LOG_LEVEL"
	EnvKeyCategories = "LINKER_KEY_CATEGORIES"
)

// DefaultEnvFile is read when present.
const DefaultEnvFile = ".env"

// Config holds the process settings.
type Config struct {
	// SeqURL enables the Seq log sink when set.
	SeqURL   string
	LogLevel slog.Level
	// KeyCategories applies to joins whose plan sets none.
	KeyCategories options.CategoryEnum
}

// Load reads settings from the process environment, falling back to the
// given .env files (DefaultEnvFile when none are given). Variables set in
// the environment win over file values; missing files are skipped.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}

	fileEnv := map[string]string{}

	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", f, err)
		}

		for k, v := range m {
			if _, ok := fileEnv[k]; !ok {
				fileEnv[k] = v
			}
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := fileEnv[key]

		return v, ok
	})
}

// FromLookup builds a Config from a variable lookup such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{
		LogLevel:      slog.LevelInfo,
		KeyCategories: options.CategoryNone,
	}

	if v, ok := lookup(EnvSeqURL); ok {
		cfg.SeqURL = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	if v, ok := lookup(EnvKeyCategories); ok && v != "" {
		cats, err := options.ParseCategories(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvKeyCategories, err)
		}

		cfg.KeyCategories = cats
	}

	return cfg, nil
}
