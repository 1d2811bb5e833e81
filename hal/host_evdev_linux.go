//go:build !tinygo && linux

package hal

import (
	"fmt"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// evdevKeyboard reads button events from a Linux input device.
type evdevKeyboard struct {
	dev *evdev.InputDevice
	ch  chan KeyEvent
}

var evdevKeymap = map[evdev.EvCode]KeyCode{
	evdev.KEY_UP:         KeyUp,
	evdev.KEY_VOLUMEUP:   KeyUp,
	evdev.KEY_DOWN:       KeyDown,
	evdev.KEY_VOLUMEDOWN: KeyDown,
	evdev.KEY_ENTER:      KeyEnter,
	evdev.KEY_POWER:      KeyEnter,
	evdev.KEY_SELECT:     KeyEnter,
	evdev.KEY_ESC:        KeyEscape,
	evdev.KEY_BACK:       KeyEscape,
}

// openEvdevKeyboard opens name as a device path, or else looks it up by
// device name among the available input devices.
func openEvdevKeyboard(name string) (*evdevKeyboard, error) {
	path := name
	if !strings.HasPrefix(name, "/") {
		paths, err := evdev.ListDevicePaths()
		if err != nil {
			return nil, err
		}
		path = ""
		for _, p := range paths {
			if p.Name == name {
				path = p.Path
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("no input device named %q", name)
		}
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	_ = dev.Grab()

	k := &evdevKeyboard{dev: dev, ch: make(chan KeyEvent, 64)}
	go k.read()
	return k, nil
}

func (k *evdevKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *evdevKeyboard) poll() {}

func (k *evdevKeyboard) read() {
	defer k.dev.Close()
	for {
		ev, err := k.dev.ReadOne()
		if err != nil {
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		code, ok := evdevKeymap[ev.Code]
		if !ok {
			continue
		}
		// Value 2 is autorepeat.
		if ev.Value != 0 && ev.Value != 1 {
			continue
		}
		select {
		case k.ch <- KeyEvent{Code: code, Press: ev.Value == 1}:
		default:
		}
	}
}
