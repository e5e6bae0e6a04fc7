//go:build cgo

package audiocapture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// capturer is the PortAudio implementation.
type capturer struct {
	cfg Config

	mu      sync.Mutex
	running bool
	stream  *portaudio.Stream
}

// New creates a Capturer backed by PortAudio.
func New(cfg Config) (Capturer, error) {
	cfg.applyDefaults()
	return &capturer{cfg: cfg}, nil
}

func (c *capturer) Start(handler AudioHandler) error {
	if handler == nil {
		return errors.New("audiocapture: nil handler")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrRunning
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initialize portaudio: %v", ErrDevice, err)
	}

	dev, err := inputDevice(c.cfg.Device)
	if err != nil {
		portaudio.Terminate()
		return err
	}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(c.cfg.SampleRate)
	params.FramesPerBuffer = c.cfg.FramesPerBuffer

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		handler(in)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: open stream on %q: %v", ErrDevice, dev.Name, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("%w: start stream: %v", ErrDevice, err)
	}

	c.stream = stream
	c.running = true
	return nil
}

func (c *capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	// Pa_StopStream returns only after pending buffers have been processed,
	// so no frame is lost between the last callback and Take.
	stopErr := c.stream.Stop()
	closeErr := c.stream.Close()
	termErr := portaudio.Terminate()

	c.stream = nil
	c.running = false

	if err := errors.Join(stopErr, closeErr, termErr); err != nil {
		return fmt.Errorf("%w: release stream: %v", ErrDevice, err)
	}
	return nil
}

// inputDevice resolves a device by name, or the default input device when
// name is empty. PortAudio must be initialized.
func inputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: default input device: %v", ErrDevice, err)
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: list devices: %v", ErrDevice, err)
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: no input device named %q", ErrDevice, name)
}

// Devices lists the available input devices.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initialize portaudio: %v", ErrDevice, err)
	}
	defer portaudio.Terminate()

	all, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: list devices: %v", ErrDevice, err)
	}

	var defName string
	if def, err := portaudio.DefaultInputDevice(); err == nil {
		defName = def.Name
	}

	var out []Device
	for _, d := range all {
		if d.MaxInputChannels <= 0 {
			continue
		}
		dev := Device{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefault:         d.Name == defName,
		}
		if d.HostApi != nil {
			dev.HostAPI = d.HostApi.Name
		}
		out = append(out, dev)
	}
	return out, nil
}
