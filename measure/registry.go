package measure

import (
	"fmt"
	"runtime"
	"time"
)

var (
	wallTimeInfo        = Info{ID: "wall_time", Name: "Wall Time", Unit: "ns"}
	cyclesInfo          = Info{ID: "cpu_cycles", Name: "CPU Cycles", Unit: "N"}
	taskClockInfo       = Info{ID: "task_clock", Name: "Task Clock", Unit: "ns"}
	cacheReferencesInfo = Info{ID: "cache_references", Name: "Cache References", Unit: "N"}
	cacheMissesInfo     = Info{ID: "cache_misses", Name: "Cache Misses", Unit: "N"}
)

// Options configures how meters are opened.
type Options struct {
	// ExcludeKernel restricts perf counters to user space. Required when
	// kernel.perf_event_paranoid is 2 or higher.
	ExcludeKernel bool
}

// Factory opens a Meter for one measurement.
type Factory struct {
	Info
	Open func(Options) (Meter, error)
}

// Known returns every measurement this tool knows, whether or not it is
// built for the current platform.
func Known() []Info {
	return []Info{
		wallTimeInfo,
		cyclesInfo,
		taskClockInfo,
		cacheReferencesInfo,
		cacheMissesInfo,
	}
}

// Available returns the factories built for the current platform, in run
// order.
func Available() []Factory {
	factories := []Factory{
		{Info: wallTimeInfo, Open: func(Options) (Meter, error) {
			return Bind[time.Time](WallTime{}), nil
		}},
		{Info: cyclesInfo, Open: func(Options) (Meter, error) {
			return Bind[uint64](Cycles{}), nil
		}},
	}

	return append(factories, perfFactories()...)
}

// Select returns the available factories with the given ids, in the order
// given. Duplicates are dropped. An empty list selects everything available.
func Select(ids []string) ([]Factory, error) {
	available := Available()
	if len(ids) == 0 {
		return available, nil
	}

	byID := make(map[string]Factory, len(available))
	for _, f := range available {
		byID[f.ID] = f
	}

	known := make(map[string]bool)
	for _, info := range Known() {
		known[info.ID] = true
	}

	selected := make([]Factory, 0, len(ids))
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		f, ok := byID[id]
		if !ok {
			if !known[id] {
				return nil, fmt.Errorf("%w %q", ErrUnknownMeasurement, id)
			}

			return nil, fmt.Errorf("%w: %s on %s/%s",
				ErrUnavailable, id, runtime.GOOS, runtime.GOARCH)
		}

		selected = append(selected, f)
	}

	return selected, nil
}
