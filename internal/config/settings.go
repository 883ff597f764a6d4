package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"atc-transcribe/internal/app/api/transcribe"

	"gopkg.in/yaml.v3"
)

// Settings is the resolved client configuration.
type Settings struct {
	Endpoint          string            `yaml:"endpoint" validate:"required,http_url"`
	Timeout           time.Duration     `yaml:"timeout" validate:"gte=0"`
	RequireTranscript bool              `yaml:"require_transcript"`
	Concurrency       int               `yaml:"concurrency" validate:"min=1,max=100"`
	LogDevelopment    bool              `yaml:"log_development"`
	Headers           map[string]string `yaml:"headers,omitempty"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Endpoint:    DefaultEndpoint,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
	}
}

// Load resolves settings from defaults, the YAML file at path (skipped when
// path is empty) and the environment, in that order, then validates them.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		if err := settings.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(settings); err != nil {
		return nil, err
	}

	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

func (s *Settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// expand ${VAR} references in header values, e.g. tokens kept out of the file
	for k, v := range s.Headers {
		s.Headers[k] = os.ExpandEnv(v)
	}
	return nil
}

// Save writes s to path as YAML, creating parent directories.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClientConfig converts s into the transcription client's configuration.
func (s *Settings) ClientConfig() transcribe.Config {
	headers := make(map[string]string, len(s.Headers))
	for k, v := range s.Headers {
		headers[k] = v
	}
	return transcribe.Config{
		Endpoint:          s.Endpoint,
		Timeout:           s.Timeout,
		RequireTranscript: s.RequireTranscript,
		Headers:           headers,
	}
}
