package proto

import "fmt"

// Outbound event dictionary keys.
const (
	KeyMode  uint32 = 1
	KeyIndex uint32 = 2
)

// EventMode is the mode code reported to the host.
type EventMode int32

const (
	ModeReady  EventMode = 0
	ModeReport EventMode = 1
	ModeAction EventMode = 2
)

func (m EventMode) String() string {
	switch m {
	case ModeReady:
		return "ready"
	case ModeReport:
		return "report"
	case ModeAction:
		return "action"
	default:
		return "unknown"
	}
}

// EventPayload encodes an outbound event as {1: mode} or {1: mode, 2: index}.
func EventPayload(mode EventMode, index int32, hasIndex bool) ([]byte, error) {
	d := Dict{IntTuple(KeyMode, int32(mode))}
	if hasIndex {
		d = append(d, IntTuple(KeyIndex, index))
	}
	return EncodeDict(d)
}

// DecodeEventPayload decodes an EventPayload.
func DecodeEventPayload(payload []byte) (mode EventMode, index int32, hasIndex bool, err error) {
	d, err := DecodeDict(payload)
	if err != nil {
		return 0, 0, false, err
	}
	t, ok := d.Find(KeyMode)
	if !ok {
		return 0, 0, false, fmt.Errorf("event: missing mode")
	}
	v, ok := t.Int()
	if !ok {
		return 0, 0, false, fmt.Errorf("event mode: %w", ErrDictValue)
	}
	mode = EventMode(v)
	if t, ok := d.Find(KeyIndex); ok {
		v, ok := t.Int()
		if !ok {
			return 0, 0, false, fmt.Errorf("event index: %w", ErrDictValue)
		}
		index, hasIndex = int32(v), true
	}
	return mode, index, hasIndex, nil
}
