//go:build !tinygo && !linux

package hal

import "errors"

type evdevKeyboard struct{}

func openEvdevKeyboard(string) (*evdevKeyboard, error) {
	return nil, errors.New("evdev input is only available on linux")
}

func (k *evdevKeyboard) Events() <-chan KeyEvent { return nil }

func (k *evdevKeyboard) poll() {}
