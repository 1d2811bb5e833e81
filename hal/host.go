//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

// HostConfig selects the host display size and peripherals.
type HostConfig struct {
	Width  int
	Height int

	// Link is "loop", "http" or "ble".
	Link     string
	HTTPAddr string
	BLEName  string
	// MaxFrame is the largest inbound link frame accepted.
	MaxFrame int

	// Evdev names a Linux input device (path or device name) used instead of
	// the window keyboard.
	Evdev string
}

type keySource interface {
	Keyboard
	poll()
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    keySource
	t      *hostTime
	link   Link
}

// New returns a host HAL implementation.
func New(cfg HostConfig) (HAL, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("hal: invalid display size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxFrame <= 0 {
		cfg.MaxFrame = 512
	}
	h := &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		t:      newHostTime(),
	}

	if cfg.Evdev != "" {
		kbd, err := openEvdevKeyboard(cfg.Evdev)
		if err != nil {
			return nil, fmt.Errorf("hal: evdev: %w", err)
		}
		h.kbd = kbd
	} else {
		h.kbd = newHostKeyboard()
	}

	switch cfg.Link {
	case "", "loop":
		h.link = NewLoopLink(cfg.MaxFrame)
	case "http":
		l, err := newHTTPLink(cfg.HTTPAddr, cfg.MaxFrame, h.fb, h.logger)
		if err != nil {
			return nil, fmt.Errorf("hal: http link: %w", err)
		}
		h.link = l
	case "ble":
		l, err := newBLELink(cfg.BLEName, cfg.MaxFrame, h.logger)
		if err != nil {
			return nil, fmt.Errorf("hal: ble link: %w", err)
		}
		h.link = l
	default:
		return nil, fmt.Errorf("hal: unknown link %q", cfg.Link)
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Link() Link       { return h.link }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd Keyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
