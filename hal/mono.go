package hal

import (
	"image"
	"image/color"
)

// MonoImage converts a 1bpp framebuffer into an image for encoding or display.
// The framebuffer must be Mono1; other formats yield a black image.
func MonoImage(fb Framebuffer) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fb.Width(), fb.Height()))
	if fb.Format() != PixelFormatMono1 {
		return img
	}
	monoToGray(img.Pix, img.Stride, fb.Buffer(), fb.StrideBytes(), fb.Width(), fb.Height())
	return img
}

func monoToGray(dst []byte, dstStride int, src []byte, srcStride, w, h int) {
	for y := 0; y < h; y++ {
		row := src[y*srcStride:]
		out := dst[y*dstStride:]
		for x := 0; x < w; x++ {
			if row[x>>3]&(1<<(uint(x)&7)) != 0 {
				out[x] = 0xFF
			} else {
				out[x] = 0x00
			}
		}
	}
}

// MonoColor maps a color to the nearest mono pixel value.
func MonoColor(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r*299+g*587+b*114)/1000 >= 0x8000
}
