package app

import (
	"fmt"
	"strings"
	"time"

	"carousel/cardos/kernel"
	"carousel/cardos/services/carousel"
	"carousel/cardos/services/input"
	"carousel/cardos/services/link"
	"carousel/cardos/services/logger"
	timesvc "carousel/cardos/services/time"
	"carousel/hal"
	"carousel/internal/config"
)

type system struct {
	k *kernel.Kernel
}

// New initializes and starts the carousel and returns the per-frame step hook.
func New(h hal.HAL, cfg config.Config) func() error {
	_ = newSystem(h, cfg)
	return func() error { return nil }
}

// ticksFor converts milliseconds into host ticks, at least one.
func ticksFor(ms int) uint64 {
	n := uint64(time.Duration(ms) * time.Millisecond / hal.TickDuration)
	if n == 0 {
		n = 1
	}
	return n
}

func newSystem(h hal.HAL, cfg config.Config) *system {
	k := kernel.New()
	installPanicHandler(k, h)

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	linkEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	carouselEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	logSend := logEP.Restrict(kernel.RightSend)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(timesvc.New(timeEP.Restrict(kernel.RightRecv)))

	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	k.AddTask(carousel.New(fb, carouselEP.Restrict(kernel.RightRecv), linkEP.Restrict(kernel.RightSend), logSend, carousel.Config{
		Cards:           cfg.CardGeometry(),
		Reasm:           cfg.ReasmConfig(),
		Nav:             cfg.NavGeometry(),
		TransitionTicks: ticksFor(cfg.TransitionMS),
		Clock:           func() string { return time.Now().Format("15:04") },
	}))

	if l := h.Link(); l != nil {
		k.AddTask(link.New(l, linkEP.Restrict(kernel.RightRecv), carouselEP.Restrict(kernel.RightSend), logSend))
	}
	if in := h.Input(); in != nil && in.Keyboard() != nil {
		k.AddTask(input.New(in.Keyboard(), carouselEP.Restrict(kernel.RightSend), timeEP.Restrict(kernel.RightSend), logSend, uint32(ticksFor(cfg.LongPressMS))))
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return &system{k: k}
}

func installPanicHandler(k *kernel.Kernel, h hal.HAL) {
	k.OnPanic(func(info kernel.PanicInfo) {
		l := h.Logger()
		if l == nil {
			return
		}
		l.WriteLineString(fmt.Sprintf("[error] panic: task=%d panic=%v", info.TaskID, info.Value))
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				l.WriteLineString(line)
			}
		}
	})
}
