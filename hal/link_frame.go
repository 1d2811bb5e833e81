package hal

import "encoding/binary"

// splitFrame prefixes frame with its length and cuts the result into chunks.
func splitFrame(frame []byte, chunk int) [][]byte {
	buf := make([]byte, 2+len(frame))
	binary.LittleEndian.PutUint16(buf, uint16(len(frame)))
	copy(buf[2:], frame)
	var out [][]byte
	for len(buf) > 0 {
		n := min(chunk, len(buf))
		out = append(out, buf[:n])
		buf = buf[n:]
	}
	return out
}

// frameReader reassembles length-prefixed frames from a byte stream.
type frameReader struct {
	max  int
	buf  []byte
	want int
	skip int
}

// feed consumes b, calling emit for each complete frame and drop for each
// frame longer than max, whose bytes are then skipped.
func (r *frameReader) feed(b []byte, emit func([]byte), drop func(n int)) {
	for len(b) > 0 {
		if r.skip > 0 {
			n := min(r.skip, len(b))
			r.skip -= n
			b = b[n:]
			continue
		}
		if r.want == 0 {
			r.buf = append(r.buf, b[0])
			b = b[1:]
			if len(r.buf) < 2 {
				continue
			}
			n := int(binary.LittleEndian.Uint16(r.buf))
			r.buf = r.buf[:0]
			if n == 0 {
				continue
			}
			if r.max > 0 && n > r.max {
				r.skip = n
				drop(n)
				continue
			}
			r.want = n
			continue
		}
		n := min(r.want-len(r.buf), len(b))
		r.buf = append(r.buf, b[:n]...)
		b = b[n:]
		if len(r.buf) == r.want {
			emit(append([]byte(nil), r.buf...))
			r.buf = r.buf[:0]
			r.want = 0
		}
	}
}
