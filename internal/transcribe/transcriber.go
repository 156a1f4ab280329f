// Package transcribe turns recorded speech into text.
package transcribe

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var ErrNoAudio = errors.New("no audio provided")

// Audio references a recording either by path or as an in-memory buffer.
// Format is a file extension hint such as "wav" or "mp3"; it is derived
// from Path when empty.
type Audio struct {
	Path   string
	Data   []byte
	Format string
}

// Name returns a file name suitable for upload, carrying the format hint.
func (a Audio) Name() string {
	if a.Path != "" {
		return filepath.Base(a.Path)
	}
	format := strings.TrimPrefix(a.Format, ".")
	if format == "" {
		format = "wav"
	}
	return "audio." + format
}

func (a Audio) Validate() error {
	if a.Path == "" && len(a.Data) == 0 {
		return ErrNoAudio
	}
	return nil
}

// Transcriber is the speech-to-text capability.
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}
