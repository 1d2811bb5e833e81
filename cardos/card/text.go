package card

import "bytes"

// Text is a bounded, always NUL-terminated byte string.
type Text struct {
	buf []byte
}

// NewText allocates a text slot holding at most capacity-1 bytes.
func NewText(capacity int) *Text {
	if capacity < 1 {
		capacity = 1
	}
	return &Text{buf: make([]byte, capacity)}
}

// Cap returns the buffer size including the terminator.
func (t *Text) Cap() int { return len(t.buf) }

// Set copies up to Cap()-1 bytes of raw and zero-fills the rest. Longer input
// is truncated; the bytes are not validated.
func (t *Text) Set(raw []byte) {
	n := copy(t.buf[:len(t.buf)-1], raw)
	clear(t.buf[n:])
}

// Reset sets the text to literal.
func (t *Text) Reset(literal string) {
	t.Set([]byte(literal))
}

// Bytes returns the content up to the first NUL. It aliases the buffer.
func (t *Text) Bytes() []byte {
	if i := bytes.IndexByte(t.buf, 0); i >= 0 {
		return t.buf[:i]
	}
	return t.buf
}

// Raw returns the whole buffer, terminator included.
func (t *Text) Raw() []byte { return t.buf }

func (t *Text) String() string { return string(t.Bytes()) }
