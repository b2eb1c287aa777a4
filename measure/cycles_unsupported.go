//go:build !amd64 && !386 && !arm64

package measure

// There is no cycle counter read for this GOARCH. Refuse to build rather
// than fall back to a clock.
var _ = cycleCounterNotSupportedOnThisArchitecture
