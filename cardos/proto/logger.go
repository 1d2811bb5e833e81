package proto

// LogLevel is carried as the first byte of a MsgLogLine payload.
type LogLevel uint8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// LogLinePayload encodes a MsgLogLine payload.
//
// Convention:
//   - u8 level, then UTF-8 bytes without a trailing newline.
//   - Delivery is best-effort; callers may drop on overflow.
func LogLinePayload(level LogLevel, b []byte) []byte {
	buf := make([]byte, 1+len(b))
	buf[0] = byte(level)
	copy(buf[1:], b)
	return buf
}

// DecodeLogLinePayload decodes a LogLinePayload.
func DecodeLogLinePayload(payload []byte) (level LogLevel, line []byte, ok bool) {
	if len(payload) < 1 {
		return 0, nil, false
	}
	return LogLevel(payload[0]), payload[1:], true
}
