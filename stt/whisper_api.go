package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Defaults applied when WhisperAPIConfig leaves a field empty.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "whisper-1"
	DefaultTimeout = 60 * time.Second
)

// WhisperAPI implements Transcriber against OpenAI's audio transcription
// endpoint or any server compatible with it.
type WhisperAPI struct {
	client   openai.Client
	model    string
	language string
	prompt   string
}

// WhisperAPIConfig holds configuration for WhisperAPI.
type WhisperAPIConfig struct {
	APIKey     string
	BaseURL    string        // Optional, defaults to OpenAI's API
	Model      string        // Optional, defaults to "whisper-1"
	Language   string        // Optional ISO-639-1 hint, empty for auto-detect
	Prompt     string        // Optional vocabulary or style hint
	Timeout    time.Duration // Per-request timeout, defaults to 60s
	MaxRetries int           // Retries on transient failures, 0 disables
}

// NewWhisperAPI creates a new WhisperAPI provider.
func NewWhisperAPI(cfg WhisperAPIConfig) (*WhisperAPI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("stt: API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	)

	return &WhisperAPI{
		client:   client,
		model:    model,
		language: cfg.Language,
		prompt:   cfg.Prompt,
	}, nil
}

func (w *WhisperAPI) Name() string { return "whisper-api" }

// Transcribe uploads a WAV file and returns the transcript text.
func (w *WhisperAPI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), "audio.wav", "audio/wav"),
		Model: openai.AudioModel(w.model),
	}
	// OpenAI does not accept 'auto', empty means auto-detect
	if w.language != "" && w.language != "auto" {
		params.Language = openai.String(w.language)
	}
	if w.prompt != "" {
		params.Prompt = openai.String(w.prompt)
	}

	start := time.Now()
	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			slog.Debug("transcription rejected", "status", apiErr.StatusCode, "model", w.model)
		}
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	slog.Debug("transcription done",
		"model", w.model,
		"bytes", len(audio),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"chars", len(resp.Text),
	)
	return resp.Text, nil
}
