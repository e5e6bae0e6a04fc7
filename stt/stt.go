// Package stt provides the speech-to-text interface and its OpenAI-compatible
// implementation.
package stt

import (
	"context"
	"errors"
)

// ErrTranscription wraps every failure of a transcription request:
// transport errors, non-2xx responses and undecodable bodies.
var ErrTranscription = errors.New("stt: transcription failed")

// Transcriber converts an encoded audio file into text.
type Transcriber interface {
	// Name returns the provider identifier.
	Name() string

	// Transcribe sends audio (a complete WAV file) to the provider and
	// returns the transcript text. The model is fixed at construction.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
