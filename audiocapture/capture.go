// Package audiocapture provides microphone capture using PortAudio.
package audiocapture

import (
	"errors"
	"sync"
)

var (
	// ErrRunning is returned when Start is called on a running capturer.
	ErrRunning = errors.New("audiocapture: already running")

	// ErrUnsupported is returned on builds without PortAudio support.
	ErrUnsupported = errors.New("audiocapture: not supported in this build (requires cgo and PortAudio)")

	// ErrDevice wraps failures to open, start or find the input device.
	ErrDevice = errors.New("audiocapture: input device unavailable")
)

// AudioHandler receives one frame of mono float32 samples in [-1, 1].
// The slice is owned by the device and reused after the handler returns.
type AudioHandler func(samples []float32)

// Capturer records audio from an input device.
type Capturer interface {
	// Start opens the input stream and delivers frames to handler until Stop.
	Start(handler AudioHandler) error
	// Stop closes the stream. Frames still pending in the device are
	// delivered before Stop returns. Calling Stop when not running is a no-op.
	Stop() error
}

// Config holds configuration for audio capture.
type Config struct {
	SampleRate      int    // Sample rate in Hz, default 44100
	FramesPerBuffer int    // Frames per device callback, default 1024
	Device          string // Input device name, empty for the system default
}

// DefaultConfig returns the default capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		FramesPerBuffer: 1024,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = def.SampleRate
	}
	if c.FramesPerBuffer <= 0 {
		c.FramesPerBuffer = def.FramesPerBuffer
	}
}

// Device describes an audio input device.
type Device struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// Sink accumulates captured frames for one recording session.
// Append may be called from the device callback while the control
// goroutine calls Len, Take or Reset.
type Sink struct {
	mu      sync.Mutex
	samples []float32
	frames  int
}

// NewSink creates a sink with room for capacity samples before growing.
func NewSink(capacity int) *Sink {
	if capacity < 0 {
		capacity = 0
	}
	return &Sink{samples: make([]float32, 0, capacity)}
}

// Append copies samples to the end of the buffer.
func (s *Sink) Append(samples []float32) {
	if len(samples) == 0 {
		return
	}
	s.mu.Lock()
	s.samples = append(s.samples, samples...)
	s.frames++
	s.mu.Unlock()
}

// Take returns everything appended since the last Take or Reset and
// leaves the sink empty. The caller owns the returned slice.
func (s *Sink) Take() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.samples
	s.samples = make([]float32, 0, cap(out))
	s.frames = 0
	return out
}

// Reset discards all buffered samples.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = s.samples[:0]
	s.frames = 0
}

// Len returns the number of buffered samples.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Frames returns the number of frames appended since the last Take or Reset.
func (s *Sink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
