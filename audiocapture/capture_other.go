//go:build !cgo

package audiocapture

// New returns ErrUnsupported on builds without cgo.
func New(cfg Config) (Capturer, error) {
	return nil, ErrUnsupported
}

// Devices returns ErrUnsupported on builds without cgo.
func Devices() ([]Device, error) {
	return nil, ErrUnsupported
}
