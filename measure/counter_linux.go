package measure

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// OpenCounter opens a disabled counter for ev on the calling OS thread.
// The caller must keep the goroutine locked to that thread for as long as
// it samples the counter.
func OpenCounter(ev Event, opts Options) (*Counter, error) {
	attr := unix.PerfEventAttr{
		Type:   ev.Type,
		Config: ev.Config,
		Bits:   unix.PerfBitDisabled,
	}
	attr.Size = uint32(unsafe.Sizeof(attr))

	if opts.ExcludeKernel {
		attr.Bits |= unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv
	}

	fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf(
			"perf_event_open type=%d config=%d: %w", ev.Type, ev.Config, err,
		)
	}

	return newCounter(fdOps(fd)), nil
}

type fdOps int

func (fd fdOps) enable() error {
	return unix.IoctlSetInt(int(fd), unix.PERF_EVENT_IOC_ENABLE, 0)
}

func (fd fdOps) disable() error {
	return unix.IoctlSetInt(int(fd), unix.PERF_EVENT_IOC_DISABLE, 0)
}

func (fd fdOps) reset() error {
	return unix.IoctlSetInt(int(fd), unix.PERF_EVENT_IOC_RESET, 0)
}

func (fd fdOps) read() (uint64, error) {
	var buf [8]byte

	n, err := unix.Read(int(fd), buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, fmt.Errorf("short read: %d bytes", n)
	}

	return binary.NativeEndian.Uint64(buf[:]), nil
}

func (fd fdOps) close() error {
	return unix.Close(int(fd))
}
