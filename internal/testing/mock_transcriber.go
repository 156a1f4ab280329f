package testing

import (
	"context"
	"sync"

	"pkdindustries/drafter/internal/transcribe"
)

// MockTranscriber implements transcribe.Transcriber for testing
type MockTranscriber struct {
	mu    sync.Mutex
	Text  string
	Err   error
	Calls []transcribe.Audio
}

// Transcribe implements transcribe.Transcriber
func (m *MockTranscriber) Transcribe(ctx context.Context, audio transcribe.Audio) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, audio)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

var _ transcribe.Transcriber = (*MockTranscriber)(nil)
