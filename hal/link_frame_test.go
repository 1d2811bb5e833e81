package hal

import (
	"bytes"
	"testing"
)

func TestFrameReaderReassemblesChunks(t *testing.T) {
	frame := bytes.Repeat([]byte{0xAB}, 50)
	var got [][]byte
	r := frameReader{max: 64}
	for _, c := range splitFrame(frame, 7) {
		r.feed(c, func(f []byte) { got = append(got, f) }, func(int) { t.Fatal("unexpected drop") })
	}
	if len(got) != 1 || !bytes.Equal(got[0], frame) {
		t.Fatalf("got %d frames", len(got))
	}
}

func TestFrameReaderSkipsOversized(t *testing.T) {
	var stream []byte
	for _, c := range splitFrame(make([]byte, 100), 20) {
		stream = append(stream, c...)
	}
	for _, c := range splitFrame([]byte{1, 2, 3}, 20) {
		stream = append(stream, c...)
	}

	var got [][]byte
	drops := 0
	r := frameReader{max: 64}
	r.feed(stream, func(f []byte) { got = append(got, f) }, func(int) { drops++ })
	if drops != 1 || len(got) != 1 || !bytes.Equal(got[0], []byte{1, 2, 3}) {
		t.Fatalf("drops=%d frames=%v", drops, got)
	}
}
