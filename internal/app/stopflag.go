package app

import "sync"

// StopFlag records a request to end the current recording session.
// It is a boolean: setting it twice is the same as setting it once.
type StopFlag struct {
	mu   sync.Mutex
	set  bool
	done chan struct{}
}

// NewStopFlag returns a cleared flag.
func NewStopFlag() *StopFlag {
	return &StopFlag{done: make(chan struct{})}
}

// Set raises the flag. It reports whether this call changed it.
func (f *StopFlag) Set() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.set {
		return false
	}
	f.set = true
	close(f.done)
	return true
}

// Reset clears the flag for a new session.
func (f *StopFlag) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.set {
		f.set = false
		f.done = make(chan struct{})
	}
}

// IsSet reports whether the flag is raised.
func (f *StopFlag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

// Done returns a channel that is closed once the flag is set. A channel
// obtained before Reset stays closed; call Done again after Reset.
func (f *StopFlag) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
