//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is a Mono1 buffer. Present publishes the drawing buffer to
// the front copy that the window and HTTP snapshot read.
type hostFramebuffer struct {
	width  int
	height int
	stride int
	buf    []byte

	mu    sync.Mutex
	front []byte
	gen   uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := (width + 7) / 8
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		front:  make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatMono1 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) ClearMono(white bool) {
	var v byte
	if white {
		v = 0xFF
	}
	for i := range f.buf {
		f.buf[i] = v
	}
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.front, f.buf)
	f.gen++
	return nil
}

// snapshot copies the last presented frame into dst and returns its generation.
func (f *hostFramebuffer) snapshot(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
	return f.gen
}

// frontFramebuffer exposes the presented frame as a read-only Framebuffer.
type frontFramebuffer struct {
	*hostFramebuffer
	bits []byte
}

func (f *hostFramebuffer) presented() frontFramebuffer {
	bits := make([]byte, len(f.front))
	f.snapshot(bits)
	return frontFramebuffer{hostFramebuffer: f, bits: bits}
}

func (f frontFramebuffer) Buffer() []byte { return f.bits }
