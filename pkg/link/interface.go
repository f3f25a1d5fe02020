// Package link is the host side of the probe serial protocol: it opens the
// session, classifies incoming lines and delivers readings and
// acknowledgements on channels.
package link

import "errors"

var (
	ErrAlreadyConnected = errors.New("link: already connected")
	ErrNotConnected     = errors.New("link: not connected")
	ErrClosed           = errors.New("link: device closed")
)

// Device defines the interface for probe connections (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Start() error
	Stop() error
	Readings() <-chan Reading
	Events() <-chan Event
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
