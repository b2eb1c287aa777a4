//go:build linux && !amd64 && !386

package measure

// Hardware cache events are only wired up for x86.
func hardwareFactories() []Factory {
	return nil
}
