package api

import "context"

// Transcriber turns an audio reference into text.
// *transcribe.Client is the production implementation.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
