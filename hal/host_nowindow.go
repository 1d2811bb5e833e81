//go:build !tinygo && !cgo

package hal

import "errors"

var errNoWindow = errors.New("hal: the window backend needs cgo; use -headless or build with CGO_ENABLED=1")

// RunWindow is unavailable without cgo.
func RunWindow(HostConfig, func(HAL) func() error) error { return errNoWindow }

func (k *hostKeyboard) poll() {}
