package proto

// Button names a physical button.
type Button uint8

const (
	ButtonBack Button = iota
	ButtonUp
	ButtonSelect
	ButtonDown
)

func (b Button) String() string {
	switch b {
	case ButtonBack:
		return "back"
	case ButtonUp:
		return "up"
	case ButtonSelect:
		return "select"
	case ButtonDown:
		return "down"
	default:
		return "unknown"
	}
}

// ButtonAction distinguishes a click release from a long press.
type ButtonAction uint8

const (
	ActionRelease ButtonAction = iota
	ActionLongPress
)

func (a ButtonAction) String() string {
	switch a {
	case ActionRelease:
		return "release"
	case ActionLongPress:
		return "long_press"
	default:
		return "unknown"
	}
}

// ButtonPayload encodes a MsgButton payload.
//
// Layout:
//   - u8: button
//   - u8: action
func ButtonPayload(b Button, a ButtonAction) []byte {
	return []byte{byte(b), byte(a)}
}

// DecodeButtonPayload decodes a ButtonPayload.
func DecodeButtonPayload(payload []byte) (b Button, a ButtonAction, ok bool) {
	if len(payload) < 2 {
		return 0, 0, false
	}
	b, a = Button(payload[0]), ButtonAction(payload[1])
	if b > ButtonDown || a > ActionLongPress {
		return 0, 0, false
	}
	return b, a, true
}
