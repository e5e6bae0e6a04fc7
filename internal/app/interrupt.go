package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// State is the interrupt controller state.
type State int32

const (
	// StateArmed: the next interrupt stops the current recording.
	StateArmed State = iota
	// StateDraining: the next interrupt exits the process.
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateDraining:
		return "draining"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Controller maps interrupt notifications onto the recording loop.
// The first interrupt after Arm sets the stop flag; any further interrupt
// exits the process without cleanup.
type Controller struct {
	state   atomic.Int32
	stop    *StopFlag
	exit    func(code int)
	console io.Writer
}

// NewController creates an armed controller that raises stop and calls
// exit on the second interrupt.
func NewController(stop *StopFlag, exit func(code int), console io.Writer) *Controller {
	if exit == nil {
		exit = os.Exit
	}
	if console == nil {
		console = io.Discard
	}
	return &Controller{stop: stop, exit: exit, console: console}
}

// State returns the current state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Arm clears the stop flag and returns to StateArmed. The loop calls it
// at the start of every recording session.
func (c *Controller) Arm() {
	c.stop.Reset()
	c.state.Store(int32(StateArmed))
}

// Interrupt handles one interrupt notification. It never blocks on the loop.
func (c *Controller) Interrupt() {
	if c.state.CompareAndSwap(int32(StateArmed), int32(StateDraining)) {
		c.stop.Set()
		slog.Debug("interrupt received", "state", StateDraining)
		fmt.Fprintln(c.console, "\nStopping recording. Press Ctrl+C again to exit.")
		return
	}

	fmt.Fprintln(c.console, "\nExiting...")
	c.exit(0)
}

// Watch forwards signals to Interrupt until ctx is done or signals is closed.
func (c *Controller) Watch(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			c.Interrupt()
		}
	}
}
