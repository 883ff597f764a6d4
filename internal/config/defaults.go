package config

import "time"

// Default configuration constants
const (
	// Backend defaults
	DefaultEndpoint = "http://localhost:8000/transcribe"
	DefaultTimeout  = time.Duration(0) // wait as long as the transport allows

	// Batch defaults
	DefaultConcurrency = 4
	MaxConcurrency     = 100

	// Mock backend defaults
	DefaultMockAddr = "localhost:8000"

	// Upper bound accepted for an explicit timeout
	MaxTimeout = 30 * time.Minute
)

// Environment variable names
const (
	EnvEndpoint          = "TRANSCRIBE_URL"
	EnvTimeout           = "TRANSCRIBE_TIMEOUT"
	EnvRequireTranscript = "TRANSCRIBE_REQUIRE_TRANSCRIPT"
	EnvConcurrency       = "TRANSCRIBE_CONCURRENCY"
	EnvLogDevelopment    = "LOG_DEVELOPMENT"
)
