package platform

import (
	"errors"
	"time"
)

// ErrIdleUnsupported is returned when input idle time cannot be read.
var ErrIdleUnsupported = errors.New("idle time unsupported")

// IdleProvider reports the time since the last keyboard or mouse input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns the provider for this OS.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdle struct{}

func (unsupportedIdle) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}
