// Package proto defines the kernel message kinds, their payload codecs and
// the link dictionary that carries card fragments and events.
package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgSleep
	MsgWake
	MsgError
	// MsgLinkRecv carries one inbound link frame to the carousel.
	MsgLinkRecv
	// MsgLinkSend carries one outbound event frame to the link service.
	MsgLinkSend
	// MsgButton carries a ButtonPayload from the input service.
	MsgButton
)

var kindNames = [...]string{
	MsgLogLine:  "log_line",
	MsgSleep:    "sleep",
	MsgWake:     "wake",
	MsgError:    "error",
	MsgLinkRecv: "link_recv",
	MsgLinkSend: "link_send",
	MsgButton:   "button",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// ErrCode is the category carried by a MsgError reply.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadMessage
	ErrOverflow
	ErrTooLarge
	ErrInternal
)

var errCodeNames = [...]string{
	ErrUnknown:    "unknown",
	ErrBadMessage: "bad_message",
	ErrOverflow:   "overflow",
	ErrTooLarge:   "too_large",
	ErrInternal:   "internal",
}

func (c ErrCode) String() string {
	if int(c) < len(errCodeNames) {
		return errCodeNames[c]
	}
	return "unknown"
}
