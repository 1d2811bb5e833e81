package proto

import (
	"fmt"
	"math"
)

// Link dictionary keys used by inbound card fragments.
const (
	KeyCommand uint32 = 0
	KeyPayload uint32 = 1
	KeyLine    uint32 = 2
	KeyID      uint32 = 3
)

// Command is the tag of an inbound card fragment.
type Command uint8

const (
	CmdClear Command = iota
	CmdUpdateText
	CmdUpdateIcon
	CmdUpdateImage
	CmdMove
	CmdView
	CmdReport
	CmdUpdateActions
)

func (c Command) String() string {
	switch c {
	case CmdClear:
		return "clear"
	case CmdUpdateText:
		return "update_text"
	case CmdUpdateIcon:
		return "update_icon"
	case CmdUpdateImage:
		return "update_image"
	case CmdMove:
		return "move"
	case CmdView:
		return "view"
	case CmdReport:
		return "report"
	case CmdUpdateActions:
		return "update_actions"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}

// FragmentOverhead is the encoded size of a fragment dictionary carrying
// command, identifier and line, excluding the payload bytes.
const FragmentOverhead = dictHeaderBytes + 4*tupleHeaderBytes + 1 + 4 + 4

// Fragment is one decoded inbound card message. Fields the sender left out
// have their Has flag cleared; presence checks belong to the reassembler.
type Fragment struct {
	Command    Command
	HasCommand bool

	ID    int32
	HasID bool

	Line    int32
	HasLine bool

	Payload    []byte
	HasPayload bool
}

// DecodeFragment decodes a link dictionary frame into a Fragment.
//
// Structural problems (truncated dictionary, integer fields with a non-integer
// type, values outside their wire width) are errors. Absent keys are not.
func DecodeFragment(frame []byte) (Fragment, error) {
	d, err := DecodeDict(frame)
	if err != nil {
		return Fragment{}, err
	}
	var f Fragment
	if t, ok := d.Find(KeyCommand); ok {
		v, ok := t.Int()
		if !ok || v < 0 || v > math.MaxUint8 {
			return Fragment{}, fmt.Errorf("command: %w", ErrDictValue)
		}
		f.Command, f.HasCommand = Command(v), true
	}
	if t, ok := d.Find(KeyID); ok {
		v, ok := t.Int()
		if !ok || v < math.MinInt32 || v > math.MaxInt32 {
			return Fragment{}, fmt.Errorf("identifier: %w", ErrDictValue)
		}
		f.ID, f.HasID = int32(v), true
	}
	if t, ok := d.Find(KeyLine); ok {
		v, ok := t.Int()
		if !ok || v < math.MinInt32 || v > math.MaxInt32 {
			return Fragment{}, fmt.Errorf("line: %w", ErrDictValue)
		}
		f.Line, f.HasLine = int32(v), true
	}
	if t, ok := d.Find(KeyPayload); ok {
		b, ok := t.Data()
		if !ok {
			return Fragment{}, fmt.Errorf("payload: %w", ErrDictValue)
		}
		f.Payload, f.HasPayload = b, true
	}
	return f, nil
}

// Dict returns the dictionary form of f, including only present fields.
func (f Fragment) Dict() Dict {
	d := make(Dict, 0, 4)
	if f.HasCommand {
		d = append(d, Uint8Tuple(KeyCommand, uint8(f.Command)))
	}
	if f.HasID {
		d = append(d, IntTuple(KeyID, f.ID))
	}
	if f.HasLine {
		d = append(d, IntTuple(KeyLine, f.Line))
	}
	if f.HasPayload {
		d = append(d, BytesTuple(KeyPayload, f.Payload))
	}
	return d
}

// Encode returns the link dictionary frame for f.
func (f Fragment) Encode() ([]byte, error) {
	return EncodeDict(f.Dict())
}

// NewFragment returns a fragment with command and identifier set.
func NewFragment(cmd Command, id int32) Fragment {
	return Fragment{Command: cmd, HasCommand: true, ID: id, HasID: true}
}

// WithLine returns f with the line field set.
func (f Fragment) WithLine(line int32) Fragment {
	f.Line, f.HasLine = line, true
	return f
}

// WithPayload returns f with the payload field set.
func (f Fragment) WithPayload(b []byte) Fragment {
	f.Payload, f.HasPayload = b, true
	return f
}
