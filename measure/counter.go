package measure

import (
	"errors"
	"fmt"
)

// ErrCounterState is returned when a Counter operation is called out of
// order.
var ErrCounterState = errors.New("counter operation out of order")

// Event selects what a Counter counts. Type and Config are the
// perf_event_attr fields of the same name.
type Event struct {
	Type   uint32
	Config uint64
}

type counterState int

const (
	stateIdle counterState = iota
	stateArmed
	stateStopped
	stateClosed
)

func (s counterState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateArmed:
		return "armed"
	case stateStopped:
		return "stopped"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// counterOps is the raw handle a Counter drives.
type counterOps interface {
	enable() error
	disable() error
	read() (uint64, error)
	reset() error
	close() error
}

// Counter is an OS performance counter reused across samples. Each sample
// must go Arm, StopAndRead, Reset in that order; any other order fails with
// ErrCounterState. A Counter is not safe for concurrent use.
type Counter struct {
	ops   counterOps
	state counterState
}

func newCounter(ops counterOps) *Counter {
	return &Counter{ops: ops, state: stateIdle}
}

// Arm starts counting.
func (c *Counter) Arm() error {
	if err := c.expect(stateIdle, "arm"); err != nil {
		return err
	}

	if err := c.ops.enable(); err != nil {
		return fmt.Errorf("enable counter: %w", err)
	}

	c.state = stateArmed

	return nil
}

// StopAndRead stops counting and returns the accumulated count.
func (c *Counter) StopAndRead() (uint64, error) {
	if err := c.expect(stateArmed, "stop"); err != nil {
		return 0, err
	}

	if err := c.ops.disable(); err != nil {
		return 0, fmt.Errorf("disable counter: %w", err)
	}

	c.state = stateStopped

	v, err := c.ops.read()
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}

	return v, nil
}

// Reset zeroes the count so the counter can be armed again.
func (c *Counter) Reset() error {
	if err := c.expect(stateStopped, "reset"); err != nil {
		return err
	}

	if err := c.ops.reset(); err != nil {
		return fmt.Errorf("reset counter: %w", err)
	}

	c.state = stateIdle

	return nil
}

// Close releases the handle. Closing twice is an error.
func (c *Counter) Close() error {
	if c.state == stateClosed {
		return fmt.Errorf("close: %w (counter is closed)", ErrCounterState)
	}

	c.state = stateClosed

	return c.ops.close()
}

func (c *Counter) expect(want counterState, op string) error {
	if c.state != want {
		return fmt.Errorf("%s: %w (counter is %s, want %s)",
			op, ErrCounterState, c.state, want)
	}

	return nil
}

// PerfToken is the intermediate of a Perf measurement. It carries nothing;
// the count lives in the kernel.
type PerfToken struct{}

// Perf measures an OS performance counter event.
type Perf struct {
	info    Info
	counter *Counter
}

// NewPerf wraps an open counter. The Perf owns it from then on.
func NewPerf(info Info, counter *Counter) *Perf {
	return &Perf{info: info, counter: counter}
}

func (p *Perf) Info() Info {
	return p.info
}

func (p *Perf) Start() (PerfToken, error) {
	return PerfToken{}, p.counter.Arm()
}

func (p *Perf) End(PerfToken) (uint64, error) {
	v, err := p.counter.StopAndRead()
	if err != nil {
		return 0, err
	}

	if err := p.counter.Reset(); err != nil {
		return 0, err
	}

	return v, nil
}

func (p *Perf) Close() error {
	return p.counter.Close()
}
