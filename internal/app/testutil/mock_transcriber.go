package testutil

import (
	"context"
	"sync"
	"time"

	"atc-transcribe/internal/app/api"

	"github.com/stretchr/testify/mock"
)

var _ api.Transcriber = (*MockTranscriber)(nil)

// MockTranscriber is a mock implementation of the api.Transcriber interface.
// Without expectations it answers from ResponseMap and ErrorMap; once On is
// used it defers to testify's mock.
type MockTranscriber struct {
	mock.Mock
	mu sync.Mutex

	DefaultLatency  time.Duration
	DefaultResponse string
	ErrorMap        map[string]error
	ResponseMap     map[string]string
	LatencyMap      map[string]time.Duration

	inFlight    int
	MaxInFlight int
	CallHistory []string
}

// NewMockTranscriber creates a new MockTranscriber with sensible defaults
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResponse: "This is a mock transcription result.",
		ErrorMap:        make(map[string]error),
		ResponseMap:     make(map[string]string),
		LatencyMap:      make(map[string]time.Duration),
	}
}

// Transcribe implements the api.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	m.mu.Lock()
	m.CallHistory = append(m.CallHistory, audioPath)
	m.inFlight++
	if m.inFlight > m.MaxInFlight {
		m.MaxInFlight = m.inFlight
	}
	useMock := len(m.ExpectedCalls) > 0
	latency, ok := m.LatencyMap[audioPath]
	if !ok {
		latency = m.DefaultLatency
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if useMock {
		args := m.Called(ctx, audioPath)
		return args.String(0), args.Error(1)
	}

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, exists := m.ErrorMap[audioPath]; exists {
		return "", err
	}
	if text, exists := m.ResponseMap[audioPath]; exists {
		return text, nil
	}
	return m.DefaultResponse, nil
}

// Calls returns the audio paths seen so far, in call order.
func (m *MockTranscriber) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.CallHistory...)
}
