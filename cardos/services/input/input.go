// Package input turns key presses and releases into carousel button events.
//
// Every release is forwarded. Holding a button past the long-press threshold
// additionally sends one ActionLongPress while the button is still down.
package input

import (
	logclient "carousel/cardos/client/logger"
	timeclient "carousel/cardos/client/time"
	"carousel/cardos/kernel"
	"carousel/cardos/proto"
	"carousel/hal"
)

// ButtonFor maps a key to a button.
func ButtonFor(code hal.KeyCode) (proto.Button, bool) {
	switch code {
	case hal.KeyUp:
		return proto.ButtonUp, true
	case hal.KeyDown:
		return proto.ButtonDown, true
	case hal.KeyEnter:
		return proto.ButtonSelect, true
	case hal.KeyEscape:
		return proto.ButtonBack, true
	default:
		return 0, false
	}
}

type Service struct {
	kbd       hal.Keyboard
	out       kernel.Capability
	timeCap   kernel.Capability
	logCap    kernel.Capability
	longPress uint32

	held   proto.Button
	isHeld bool
}

// New returns the input service. longPress is the hold threshold in ticks.
func New(kbd hal.Keyboard, out, timeCap, logCap kernel.Capability, longPress uint32) *Service {
	return &Service{kbd: kbd, out: out, timeCap: timeCap, logCap: logCap, longPress: longPress}
}

func (s *Service) Run(ctx *kernel.Context) {
	if s.kbd == nil {
		return
	}
	log := logclient.New(ctx, s.logCap, "input")
	timer, err := timeclient.NewTimer(ctx, s.timeCap)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	events := s.kbd.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.key(ctx, log, timer, ev)
		case msg := <-timer.C():
			fired, err := timer.Fired(&msg)
			if err != nil {
				log.Warnf("long press timer: %v", err)
			}
			if fired && err == nil && s.isHeld {
				s.send(ctx, log, s.held, proto.ActionLongPress)
			}
		}
	}
}

func (s *Service) key(ctx *kernel.Context, log *logclient.Logger, timer *timeclient.Timer, ev hal.KeyEvent) {
	b, ok := ButtonFor(ev.Code)
	if !ok {
		return
	}
	if ev.Press {
		if s.isHeld && s.held == b {
			return
		}
		s.held, s.isHeld = b, true
		if err := timer.Start(s.longPress); err != nil {
			log.Warnf("long press timer: %v", err)
		}
		return
	}
	if s.isHeld && s.held == b {
		s.isHeld = false
		timer.Stop()
	}
	s.send(ctx, log, b, proto.ActionRelease)
}

func (s *Service) send(ctx *kernel.Context, log *logclient.Logger, b proto.Button, a proto.ButtonAction) {
	if res := ctx.SendToCapRetry(s.out, uint16(proto.MsgButton), proto.ButtonPayload(b, a), kernel.Capability{}, 4); res != kernel.SendOK {
		log.Warnf("drop %s %s: %s", b, a, res)
	}
}
