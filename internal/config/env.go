package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envPaths are tried in order; the first that exists is loaded.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from the first .env file found and
// returns its path, or "" when none exists. Variables already set in the
// process environment win.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// ApplyEnv overrides fields of s with any TRANSCRIBE_* variables that are set.
func ApplyEnv(s *Settings) error {
	if v := lookup(EnvEndpoint); v != "" {
		s.Endpoint = v
	}

	if v := lookup(EnvTimeout); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		s.Timeout = timeout
	}

	if v := lookup(EnvRequireTranscript); v != "" {
		require, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequireTranscript, err)
		}
		s.RequireTranscript = require
	}

	if v := lookup(EnvConcurrency); v != "" {
		concurrency, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvConcurrency, err)
		}
		s.Concurrency = concurrency
	}

	if v := lookup(EnvLogDevelopment); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLogDevelopment, err)
		}
		s.LogDevelopment = dev
	}

	return nil
}

// parseTimeout accepts a Go duration ("90s") or a bare number of seconds ("90").
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
