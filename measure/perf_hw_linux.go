//go:build linux && (amd64 || 386)

package measure

import "golang.org/x/sys/unix"

func hardwareFactories() []Factory {
	return []Factory{
		perfFactory(cacheReferencesInfo, Event{
			Type:   unix.PERF_TYPE_HARDWARE,
			Config: unix.PERF_COUNT_HW_CACHE_REFERENCES,
		}),
		perfFactory(cacheMissesInfo, Event{
			Type:   unix.PERF_TYPE_HARDWARE,
			Config: unix.PERF_COUNT_HW_CACHE_MISSES,
		}),
	}
}
