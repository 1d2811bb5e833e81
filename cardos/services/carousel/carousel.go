// Package carousel is the task that owns the card cache, the navigator, the
// tween engine and the renderer. Link fragments, button events and ticks are
// all handled on its goroutine, so the renderer never observes a partial write.
package carousel

import (
	"carousel/cardos/anim"
	"carousel/cardos/card"
	logclient "carousel/cardos/client/logger"
	"carousel/cardos/kernel"
	"carousel/cardos/nav"
	"carousel/cardos/notify"
	"carousel/cardos/proto"
	"carousel/cardos/reasm"
	"carousel/cardos/render"
	"carousel/hal"
)

// Config is the carousel geometry and timing.
type Config struct {
	Cards card.Geometry
	Reasm reasm.Config
	Nav   nav.Geometry

	// TransitionTicks is the length of every transition.
	TransitionTicks uint64

	Fonts render.Fonts
	// Clock returns the watchface text. Nil shows no text.
	Clock func() string
}

type Service struct {
	cfg    Config
	fb     hal.Framebuffer
	ep     kernel.Capability
	link   kernel.Capability
	logCap kernel.Capability

	cache    *card.Cache
	reasm    *reasm.Reassembler
	anim     *anim.Engine
	renderer *render.Renderer
	nav      *nav.Navigator
	log      *logclient.Logger

	clock string
	dirty bool
}

// New returns the carousel service. ep receives MsgLinkRecv and MsgButton;
// events go to link as MsgLinkSend.
func New(fb hal.Framebuffer, ep, link, logCap kernel.Capability, cfg Config) *Service {
	if cfg.Fonts.Body == nil {
		cfg.Fonts = render.DefaultFonts()
	}
	cache := card.NewCache(cfg.Cards)
	s := &Service{
		cfg:    cfg,
		fb:     fb,
		ep:     ep,
		link:   link,
		logCap: logCap,
		cache:  cache,
		reasm:  reasm.New(cache, cfg.Reasm),
		anim:   anim.New(cfg.TransitionTicks),
	}
	if fb != nil {
		s.renderer = render.New(fb, render.Layout{MinCardHeight: cfg.Nav.MinCardHeight}, cfg.Fonts)
	}
	return s
}

// Body returns the body text shown for a card index.
func (s *Service) Body(index int) string {
	return s.cache.Get(int32(index)).Body.String()
}

func (s *Service) setup(n notify.Notifier, log *logclient.Logger) {
	s.log = log
	s.nav = nav.New(s.cfg.Nav, s.reasm.Total(), s, render.Measurer{Font: s.cfg.Fonts.Body}, s.anim, n)
	s.dirty = true
}

func (s *Service) Run(ctx *kernel.Context) {
	in, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	n := notify.NewLinkNotifier(ctx, s.link)
	s.setup(n, logclient.New(ctx, s.logCap, "carousel"))
	n.Notify(notify.Event{Kind: notify.Ready})
	s.log.Infof("ready: %d cards, %d slots", s.reasm.Total(), s.cache.Len())

	ticks := ctx.Ticks()
	s.tick(ctx.NowTick())
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				return
			}
			s.handle(&msg)
		case now := <-ticks:
			s.tick(now)
		}
	}
}

func (s *Service) handle(msg *kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgLinkRecv:
		s.fragment(msg.Payload())
	case proto.MsgButton:
		b, a, ok := proto.DecodeButtonPayload(msg.Payload())
		if !ok {
			s.log.Warnf("bad button payload")
			return
		}
		s.nav.Handle(b, a)
		s.dirty = true
	}
}

func (s *Service) fragment(frame []byte) {
	res, err := s.reasm.ApplyFrame(frame)
	if err != nil {
		s.log.Warnf("%v", err)
		return
	}
	if res.Ignored {
		s.log.Debugf("ignore command %d id=%d", res.Command, res.ID)
		return
	}
	if res.Collided {
		s.log.Warnf("slot %d: id=%d evicted by id=%d", res.Slot, res.Evicted, res.ID)
	}
	if res.TextChanged {
		s.nav.Relayout(int(res.ID))
	}
	s.dirty = true
}

// tick advances transitions and repaints when anything changed.
func (s *Service) tick(now uint64) {
	if s.anim.Active() > 0 {
		s.anim.Step(now)
		s.dirty = true
	}
	if s.cfg.Clock != nil && s.nav.Mode() == nav.Watchface {
		if c := s.cfg.Clock(); c != s.clock {
			s.clock = c
			s.dirty = true
		}
	}
	if !s.dirty && !s.cache.Dirty() {
		return
	}
	s.paint()
}

func (s *Service) paint() {
	s.dirty = false
	s.cache.ClearDirty()
	if s.renderer == nil {
		return
	}
	if err := s.renderer.Paint(s.nav, s.cache, s.clock); err != nil {
		s.log.Errorf("paint: %v", err)
	}
}
