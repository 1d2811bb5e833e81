package logger

import (
	"fmt"

	"carousel/cardos/kernel"
	"carousel/cardos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, level proto.LogLevel, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes-1 {
		b = b[:kernel.MaxMessageBytes-1]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(level, b), kernel.Capability{})
}

// LogRetry is Log that waits up to limit ticks for room in the logger queue.
func LogRetry(ctx *kernel.Context, logCap kernel.Capability, level proto.LogLevel, line string, limit int) error {
	if ctx == nil {
		return fmt.Errorf("logger retry: nil context")
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes-1 {
		b = b[:kernel.MaxMessageBytes-1]
	}
	res := ctx.SendToCapRetry(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(level, b), kernel.Capability{}, limit)
	if res != kernel.SendOK {
		return fmt.Errorf("logger send: %s", res)
	}
	return nil
}

// Logger prefixes every line with a component name, as in "carousel: ...".
type Logger struct {
	ctx    *kernel.Context
	cap    kernel.Capability
	prefix string
}

func New(ctx *kernel.Context, logCap kernel.Capability, prefix string) *Logger {
	return &Logger{ctx: ctx, cap: logCap, prefix: prefix}
}

func (l *Logger) logf(level proto.LogLevel, format string, args ...any) {
	if l == nil || !l.cap.Valid() {
		return
	}
	_ = Log(l.ctx, l.cap, level, l.prefix+": "+fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(proto.LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(proto.LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(proto.LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(proto.LevelError, format, args...) }
