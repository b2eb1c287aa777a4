//go:build !linux

package measure

func perfFactories() []Factory {
	return nil
}
