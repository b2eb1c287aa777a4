//go:build amd64 || 386 || arm64

package measure

// readCycles returns the raw cycle counter.
// Implemented in cycles_$GOARCH.s.
//
//go:noescape
func readCycles() uint64
