package transcribe

import (
	"fmt"
)

// ErrorText is what callers that cannot handle an error show in place of a transcript.
const ErrorText = "Error during transcription."

// Kind separates failures that never reached the backend from failures the
// backend answered badly.
type Kind int

const (
	// KindTransport covers refused connections, DNS failures, timeouts and cancellation.
	KindTransport Kind = iota + 1
	// KindApplication covers non-2xx statuses, undecodable bodies and backend-reported errors.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Transcribe for every failed call.
type Error struct {
	Kind       Kind
	AudioPath  string
	StatusCode int // zero unless the backend answered
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transcribe %q: %s failure (status %d): %v", e.AudioPath, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transcribe %q: %s failure: %v", e.AudioPath, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Render turns the result of Transcribe into display text: the transcript on
// success, ErrorText on any failure.
func Render(text string, err error) string {
	if err != nil {
		return ErrorText
	}
	return text
}
