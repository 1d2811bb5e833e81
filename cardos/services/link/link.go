// Package link bridges a hal.Link transport to kernel messages: inbound frames
// go to the carousel as MsgLinkRecv and MsgLinkSend payloads go out on the
// transport.
package link

import (
	logclient "carousel/cardos/client/logger"
	"carousel/cardos/kernel"
	"carousel/cardos/proto"
	"carousel/hal"
)

// sendRetries bounds how many ticks an inbound frame waits for the carousel.
const sendRetries = 8

type Service struct {
	link   hal.Link
	ep     kernel.Capability
	out    kernel.Capability
	logCap kernel.Capability

	Dropped uint32
}

func New(link hal.Link, ep, out, logCap kernel.Capability) *Service {
	return &Service{link: link, ep: ep, out: out, logCap: logCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	log := logclient.New(ctx, s.logCap, "link")
	in, ok := ctx.RecvChan(s.ep)
	if !ok || s.link == nil {
		return
	}
	frames := s.link.Inbound()
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				log.Warnf("transport closed")
				frames = nil
				continue
			}
			s.inbound(ctx, log, frame)
		case msg, ok := <-in:
			if !ok {
				return
			}
			s.outbound(log, &msg)
		}
	}
}

func (s *Service) inbound(ctx *kernel.Context, log *logclient.Logger, frame []byte) {
	if len(frame) > kernel.MaxMessageBytes {
		s.Dropped++
		log.Warnf("drop %d byte frame: over %d", len(frame), kernel.MaxMessageBytes)
		return
	}
	if res := ctx.SendToCapRetry(s.out, uint16(proto.MsgLinkRecv), frame, kernel.Capability{}, sendRetries); res != kernel.SendOK {
		s.Dropped++
		log.Warnf("drop frame: %s", res)
	}
}

func (s *Service) outbound(log *logclient.Logger, msg *kernel.Message) {
	if msg.Kind != uint16(proto.MsgLinkSend) {
		return
	}
	if err := s.link.Send(append([]byte(nil), msg.Payload()...)); err != nil {
		log.Warnf("send: %v", err)
	}
}
