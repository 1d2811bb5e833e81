//go:build !linux && !tinygo

package hal

func newBLELink(name string, maxFrame int, log Logger) (Link, error) {
	return nil, ErrNotImplemented
}
