package timesvc

import (
	"carousel/cardos/kernel"
	"carousel/cardos/proto"
)

const maxSleepers = 32

type sleeper struct {
	inUse bool
	due   uint64
	id    uint32
	reply kernel.Capability
}

// Service answers MsgSleep requests with MsgWake once the kernel tick reaches
// the requested deadline.
type Service struct {
	ep kernel.Capability

	now      uint64
	sleepers [maxSleepers]sleeper
}

func New(ep kernel.Capability) *Service {
	return &Service{ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	in, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	s.now = ctx.NowTick()
	ticks := ctx.Ticks()
	for {
		select {
		case seq := <-ticks:
			s.now = seq
			s.wakeReady(ctx)
		case msg, ok := <-in:
			if !ok {
				return
			}
			s.now = max(s.now, ctx.NowTick())
			s.handle(ctx, &msg)
		}
	}
}

func (s *Service) handle(ctx *kernel.Context, msg *kernel.Message) {
	if msg.Kind != uint16(proto.MsgSleep) || !msg.Cap.Valid() {
		return
	}

	requestID, dt, ok := proto.DecodeSleepPayload(msg.Payload())
	if !ok {
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), proto.ErrorPayload(proto.ErrBadMessage, proto.MsgSleep, 0), kernel.Capability{})
		return
	}
	if dt == 0 {
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgWake), proto.WakePayload(requestID), kernel.Capability{})
		return
	}
	if !s.schedule(s.now+uint64(dt), requestID, msg.Cap) {
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), proto.ErrorPayload(proto.ErrOverflow, proto.MsgSleep, requestID), kernel.Capability{})
	}
}

func (s *Service) schedule(due uint64, requestID uint32, reply kernel.Capability) bool {
	for i := range s.sleepers {
		if s.sleepers[i].inUse {
			continue
		}
		s.sleepers[i] = sleeper{inUse: true, due: due, id: requestID, reply: reply}
		return true
	}
	return false
}

func (s *Service) wakeReady(ctx *kernel.Context) {
	for i := range s.sleepers {
		sl := &s.sleepers[i]
		if !sl.inUse || sl.due > s.now {
			continue
		}
		_ = ctx.SendToCapResult(sl.reply, uint16(proto.MsgWake), proto.WakePayload(sl.id), kernel.Capability{})
		*sl = sleeper{}
	}
}
