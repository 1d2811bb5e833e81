package logger

import (
	"carousel/cardos/kernel"
	"carousel/cardos/proto"
	"carousel/hal"
)

type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	for {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			return
		}
		s.handle(&msg)
	}
}

func (s *Service) handle(msg *kernel.Message) {
	if s.log == nil || msg.Kind != uint16(proto.MsgLogLine) {
		return
	}
	level, line, ok := proto.DecodeLogLinePayload(msg.Payload())
	if !ok {
		return
	}
	buf := make([]byte, 0, len(line)+10)
	buf = append(buf, '[')
	buf = append(buf, level.String()...)
	buf = append(buf, "] "...)
	buf = append(buf, line...)
	s.log.WriteLineBytes(buf)
}
