//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	// Ticks stops the runner after that many frames; 0 runs until ctx ends.
	Ticks uint64
	// Snapshot, if set, receives a PNG of the last presented frame on exit.
	Snapshot string
}

// RunHeadless drives the HAL clock at cfg.Hz without a window. Buttons come
// from evdev, if configured, and content from the link.
func RunHeadless(ctx context.Context, hostCfg HostConfig, newApp func(HAL) func() error, cfg HeadlessConfig) (err error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	period := time.Second / time.Duration(cfg.Hz)
	if period <= 0 {
		return fmt.Errorf("hal: headless rate %d Hz is too high", cfg.Hz)
	}

	hh, err := New(hostCfg)
	if err != nil {
		return err
	}
	h := hh.(*hostHAL)
	step := newApp(h)
	if cfg.Snapshot != "" {
		defer func() {
			if serr := writeSnapshot(cfg.Snapshot, h.fb); err == nil {
				err = serr
			}
		}()
	}

	t := time.NewTicker(period)
	defer t.Stop()
	for frames := uint64(0); cfg.Ticks == 0 || frames < cfg.Ticks; frames++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		h.t.step(1)
		if step == nil {
			continue
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func writeSnapshot(path string, fb *hostFramebuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, MonoImage(fb.presented())); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
