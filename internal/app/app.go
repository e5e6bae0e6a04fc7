// Package app runs the record, transcribe and publish loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Oaklight/asr-to-clipboard/audiocapture"
	"github.com/Oaklight/asr-to-clipboard/clipboard"
	"github.com/Oaklight/asr-to-clipboard/stt"
)

// Options configures an App. Zero values are replaced with defaults.
type Options struct {
	SampleRate   int           // Must match the capturer, default 44100
	RestartDelay time.Duration // Pause between sessions
	Console      io.Writer     // User-facing status lines, default os.Stdout
	Exit         func(code int)
}

// App owns the stop flag and drives one recording session at a time.
type App struct {
	capture     audiocapture.Capturer
	transcriber stt.Transcriber
	publisher   clipboard.Publisher

	sink *audiocapture.Sink
	stop *StopFlag
	ctrl *Controller

	opts     Options
	sessions int
}

// New wires the collaborators into an App.
func New(capture audiocapture.Capturer, transcriber stt.Transcriber, publisher clipboard.Publisher, opts Options) *App {
	if opts.SampleRate <= 0 {
		opts.SampleRate = audiocapture.DefaultConfig().SampleRate
	}
	if opts.RestartDelay < 0 {
		opts.RestartDelay = 0
	}
	if opts.Console == nil {
		opts.Console = os.Stdout
	}

	stop := NewStopFlag()
	return &App{
		capture:     capture,
		transcriber: transcriber,
		publisher:   publisher,
		sink:        audiocapture.NewSink(opts.SampleRate * 30),
		stop:        stop,
		ctrl:        NewController(stop, opts.Exit, opts.Console),
		opts:        opts,
	}
}

// Controller returns the interrupt controller driving this App.
func (a *App) Controller() *Controller {
	return a.ctrl
}

// Sessions returns the number of sessions started so far.
func (a *App) Sessions() int {
	return a.sessions
}

// Run records and transcribes sessions until ctx is cancelled or a session
// fails. Interrupts arrive on signals. Cancellation is not an error.
func (a *App) Run(ctx context.Context, signals <-chan os.Signal) error {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.ctrl.Watch(watchCtx, signals)

	fmt.Fprintln(a.opts.Console, "Press Ctrl+C to stop recording and transcribe the audio.")
	fmt.Fprintln(a.opts.Console, "Press Ctrl+C twice to exit.")

	slog.Info("transcription loop started",
		"provider", a.transcriber.Name(),
		"sample_rate", a.opts.SampleRate,
	)

	for {
		if err := a.runSession(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.opts.RestartDelay):
		}
	}
}
