package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Oaklight/asr-to-clipboard/pcm"
)

// runSession records until the stop flag is raised, then transcribes and
// publishes the result. Capture is released on every return path.
func (a *App) runSession(ctx context.Context) error {
	a.sessions++
	log := slog.With("session", uuid.NewString(), "seq", a.sessions)

	a.ctrl.Arm()
	a.sink.Reset()

	if err := a.capture.Start(a.sink.Append); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	capturing := true
	defer func() {
		if capturing {
			if err := a.capture.Stop(); err != nil {
				log.Warn("release capture", "error", err)
			}
		}
	}()

	start := time.Now()
	fmt.Fprintln(a.opts.Console, "Recording... Press Ctrl+C to stop.")
	log.Debug("recording started")

	select {
	case <-a.stop.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	capturing = false
	if err := a.capture.Stop(); err != nil {
		return fmt.Errorf("stop capture: %w", err)
	}
	frames := a.sink.Frames()
	samples := a.sink.Take()

	fmt.Fprintln(a.opts.Console, "Recording stopped.")
	log.Info("recording stopped",
		"frames", frames,
		"samples", len(samples),
		"rms", fmt.Sprintf("%.4f", pcm.RMS(samples)),
		"audio", pcm.Duration(len(samples), a.opts.SampleRate).Round(time.Millisecond),
		"wall", time.Since(start).Round(time.Millisecond),
	)

	wav, err := a.encode(samples)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.opts.Console, "Transcribing audio...")
	text, err := a.transcriber.Transcribe(ctx, wav)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	a.publish(log, text)
	return nil
}

// encode normalizes samples to full scale and wraps them in a WAV file.
func (a *App) encode(samples []float32) ([]byte, error) {
	pcm16, err := pcm.Normalize(samples)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	wav, err := pcm.WAVBytes(pcm16, a.opts.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return wav, nil
}

// publish copies the transcript to the clipboard. Failures are logged and
// the loop carries on; an empty transcript leaves the clipboard untouched.
func (a *App) publish(log *slog.Logger, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn("empty transcript, clipboard left unchanged")
		fmt.Fprintln(a.opts.Console, "No speech recognized; clipboard unchanged.")
		return
	}

	fmt.Fprintf(a.opts.Console, "\nTranscribed text:\n-----------------\n%s\n\n", text)

	if err := a.publisher.Publish(text); err != nil {
		log.Warn("publish transcript", "error", err)
		fmt.Fprintln(a.opts.Console, "Could not copy the text to the clipboard.")
		return
	}
	log.Info("transcript published", "chars", len(text))
	fmt.Fprintln(a.opts.Console, "Copied to clipboard.")
}
