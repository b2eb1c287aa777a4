// Package measure defines the measurement backends a benchmark run samples
// with, and the registry of backends available on the current platform.
package measure

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnknownMeasurement is returned for an id no backend uses.
	ErrUnknownMeasurement = errors.New("unknown measurement")
	// ErrUnavailable is returned for a known id that is not built for
	// this GOOS/GOARCH.
	ErrUnavailable = errors.New("measurement not available on this platform")
)

// Info identifies a measurement.
type Info struct {
	ID   string
	Name string
	Unit string
}

// Measurement brackets an interval. Start produces an intermediate value
// that must be passed to the End call that follows it, and to nothing else.
// The intermediate type differs per backend.
type Measurement[I any] interface {
	Info() Info
	Start() (I, error)
	End(I) (uint64, error)
}

// Meter is a Measurement with its intermediate type hidden, so backends
// with different intermediates can be driven through the same loop.
type Meter interface {
	Info() Info
	// Measure calls fn between Start and End and returns the measured
	// value. An error from fn is returned as is.
	Measure(fn func() error) (uint64, error)
	Close() error
}

// Bind wraps m as a Meter. If m implements io.Closer, Close is forwarded.
func Bind[I any](m Measurement[I]) Meter {
	return &bound[I]{m: m}
}

type bound[I any] struct {
	m Measurement[I]
}

func (b *bound[I]) Info() Info {
	return b.m.Info()
}

func (b *bound[I]) Measure(fn func() error) (uint64, error) {
	token, err := b.m.Start()
	if err != nil {
		return 0, fmt.Errorf("start %s: %w", b.m.Info().ID, err)
	}

	runErr := fn()

	// End runs even when fn failed so that stateful backends are
	// returned to their idle state.
	value, err := b.m.End(token)
	if runErr != nil {
		return 0, runErr
	}
	if err != nil {
		return 0, fmt.Errorf("end %s: %w", b.m.Info().ID, err)
	}

	return value, nil
}

func (b *bound[I]) Close() error {
	if c, ok := b.m.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
