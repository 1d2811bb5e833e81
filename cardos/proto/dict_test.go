package proto

import (
	"bytes"
	"errors"
	"testing"
)

func TestFragmentRoundTrip(t *testing.T) {
	f := NewFragment(CmdUpdateIcon, 7).WithLine(16).WithPayload([]byte{1, 2, 3, 4})
	frame, err := f.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(frame) != FragmentOverhead+4 {
		t.Fatalf("expected %d bytes, got %d", FragmentOverhead+4, len(frame))
	}

	got, err := DecodeFragment(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.HasCommand || got.Command != CmdUpdateIcon {
		t.Fatalf("command: %+v", got)
	}
	if !got.HasID || got.ID != 7 || !got.HasLine || got.Line != 16 {
		t.Fatalf("id/line: %+v", got)
	}
	if !got.HasPayload || !bytes.Equal(got.Payload, []byte{1, 2, 3, 4}) {
		t.Fatalf("payload: %v", got.Payload)
	}
}

func TestDecodeFragmentAbsentFields(t *testing.T) {
	frame, err := EncodeDict(Dict{Uint8Tuple(KeyCommand, uint8(CmdUpdateImage))})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	f, err := DecodeFragment(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.HasID || f.HasLine || f.HasPayload {
		t.Fatalf("expected only command, got %+v", f)
	}
}

func TestDecodeDictTruncated(t *testing.T) {
	frame, _ := NewFragment(CmdUpdateText, 1).WithPayload([]byte("hello")).Encode()
	for n := 0; n < len(frame); n++ {
		if _, err := DecodeDict(frame[:n]); !errors.Is(err, ErrDictTruncated) {
			t.Fatalf("prefix %d: expected ErrDictTruncated, got %v", n, err)
		}
	}
	if _, err := DecodeDict(append(frame, 0)); !errors.Is(err, ErrDictTrailing) {
		t.Fatalf("expected ErrDictTrailing, got %v", err)
	}
}

func TestDecodeFragmentRejectsWrongTypes(t *testing.T) {
	frame, _ := EncodeDict(Dict{BytesTuple(KeyID, []byte{1, 2, 3})})
	if _, err := DecodeFragment(frame); !errors.Is(err, ErrDictValue) {
		t.Fatalf("expected ErrDictValue for bytes identifier, got %v", err)
	}
	frame, _ = EncodeDict(Dict{IntTuple(KeyPayload, 3)})
	if _, err := DecodeFragment(frame); !errors.Is(err, ErrDictValue) {
		t.Fatalf("expected ErrDictValue for integer payload, got %v", err)
	}
}

func TestTupleIntWidths(t *testing.T) {
	cases := []struct {
		t    Tuple
		want int64
	}{
		{Tuple{Type: TupleInt, Value: []byte{0xFF}}, -1},
		{Tuple{Type: TupleUint, Value: []byte{0xFF}}, 255},
		{Tuple{Type: TupleInt, Value: []byte{0xFE, 0xFF}}, -2},
		{IntTuple(0, -100000), -100000},
	}
	for i, c := range cases {
		got, ok := c.t.Int()
		if !ok || got != c.want {
			t.Fatalf("case %d: got %d ok=%v, want %d", i, got, ok, c.want)
		}
	}
	if _, ok := (Tuple{Type: TupleInt, Value: []byte{1, 2, 3}}).Int(); ok {
		t.Fatal("expected 3-byte integer to be rejected")
	}
}

func TestEventPayloadCodes(t *testing.T) {
	b, err := EventPayload(ModeReady, 0, false)
	if err != nil {
		t.Fatalf("encode ready: %v", err)
	}
	mode, _, hasIndex, err := DecodeEventPayload(b)
	if err != nil || mode != ModeReady || hasIndex {
		t.Fatalf("ready: mode=%v hasIndex=%v err=%v", mode, hasIndex, err)
	}

	if b, err = EventPayload(ModeAction, 5, true); err != nil {
		t.Fatalf("encode action: %v", err)
	}
	mode, index, hasIndex, err := DecodeEventPayload(b)
	if err != nil || mode != ModeAction || !hasIndex || index != 5 {
		t.Fatalf("action: mode=%v index=%d hasIndex=%v err=%v", mode, index, hasIndex, err)
	}
}

func TestButtonPayload(t *testing.T) {
	b, a, ok := DecodeButtonPayload(ButtonPayload(ButtonDown, ActionLongPress))
	if !ok || b != ButtonDown || a != ActionLongPress {
		t.Fatalf("got %v %v %v", b, a, ok)
	}
	if _, _, ok := DecodeButtonPayload([]byte{9, 0}); ok {
		t.Fatal("expected unknown button to be rejected")
	}
}
