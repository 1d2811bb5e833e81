package card

import "errors"

var (
	ErrRowRange = errors.New("card: row range out of bounds")
	ErrShortRow = errors.New("card: packed data shorter than row count")
)

// Pattern selects what Reset writes into a bitmap.
type Pattern uint8

const (
	PatternChecker Pattern = iota
	PatternBlank
)

// TightStride is the unpadded wire row size for width pixels.
func TightStride(width int) int {
	return (width + 7) / 8
}

// Stride rounds the tight stride of width up to a multiple of align bytes.
func Stride(width, align int) int {
	s := TightStride(width)
	if align <= 1 {
		return s
	}
	return (s + align - 1) / align * align
}

// View is a read-only description of a bitmap. Bit 0 of each byte is the
// leftmost pixel of its group of eight; a set bit is a white pixel.
type View struct {
	Bits   []byte
	Width  int
	Height int
	Stride int
}

// Pixel reports the pixel at x, y. Out-of-range coordinates read as black.
func (v View) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height {
		return false
	}
	return v.Bits[y*v.Stride+x/8]&(1<<(uint(x)&7)) != 0
}

// Bitmap is a fixed-size, row-major, 1-bpp buffer with an aligned stride.
type Bitmap struct {
	bits    []byte
	width   int
	height  int
	stride  int
	tight   int
	pattern Pattern
}

// NewBitmap allocates a bitmap in its placeholder state. A stride of 0 derives
// it from width and align; an explicit stride narrower than the tight row is widened.
func NewBitmap(width, height, align, stride int, pattern Pattern) *Bitmap {
	tight := TightStride(width)
	if stride <= 0 {
		stride = Stride(width, align)
	}
	if stride < tight {
		stride = tight
	}
	b := &Bitmap{
		bits:    make([]byte, stride*height),
		width:   width,
		height:  height,
		stride:  stride,
		tight:   tight,
		pattern: pattern,
	}
	b.Reset()
	return b
}

func (b *Bitmap) Width() int  { return b.width }
func (b *Bitmap) Height() int { return b.height }
func (b *Bitmap) Stride() int { return b.stride }

// TightStride is the number of wire bytes per row.
func (b *Bitmap) TightStride() int { return b.tight }

// WriteRows copies rowCount rows of tightly packed data into the bitmap
// starting at startRow. Bytes between the tight width and the stride are left
// as they are. Nothing is written when the range or data length is invalid.
func (b *Bitmap) WriteRows(startRow, rowCount int, packed []byte) error {
	if startRow < 0 || rowCount <= 0 || startRow > b.height-rowCount {
		return ErrRowRange
	}
	if len(packed) < rowCount*b.tight {
		return ErrShortRow
	}
	for r := 0; r < rowCount; r++ {
		dst := (startRow + r) * b.stride
		src := r * b.tight
		copy(b.bits[dst:dst+b.tight], packed[src:src+b.tight])
	}
	return nil
}

// Reset rewrites the whole buffer, padding included, with the placeholder pattern.
func (b *Bitmap) Reset() {
	for row := 0; row < b.height; row++ {
		line := b.bits[row*b.stride : (row+1)*b.stride]
		for col := range line {
			line[col] = patternByte(b.pattern, row, col)
		}
	}
}

// patternByte returns the placeholder byte at row, col. For the checker,
// bit k of the byte is set when (row + col*8 + k) is odd, read most
// significant bit first; that gives 0x55 on even rows and 0xAA on odd rows.
func patternByte(p Pattern, row, col int) byte {
	if p != PatternChecker {
		return 0
	}
	var v byte
	for k := 0; k < 8; k++ {
		if (row%2+col*8+k)%2 == 1 {
			v |= 0x80 >> uint(k)
		}
	}
	return v
}

// IsPlaceholder reports whether every byte equals the placeholder pattern.
func (b *Bitmap) IsPlaceholder() bool {
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.stride; col++ {
			if b.bits[row*b.stride+col] != patternByte(b.pattern, row, col) {
				return false
			}
		}
	}
	return true
}

// View returns a read-only view aliasing the bitmap storage.
func (b *Bitmap) View() View {
	return View{Bits: b.bits, Width: b.width, Height: b.height, Stride: b.stride}
}
