package frag

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"carousel/cardos/card"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// Pack scales img to w by h and packs it into tight 1-bpp rows: bit 0 of each
// byte is the leftmost pixel and a set bit is white. Transparent pixels are
// black.
func Pack(img image.Image, w, h int) []byte {
	gray := image.NewGray(image.Rect(0, 0, w, h))
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(gray, gray.Bounds(), img, b, draw.Src, nil)
	}

	tight := card.TightStride(w)
	out := make([]byte, tight*h)
	for y := 0; y < h; y++ {
		row := out[y*tight:]
		for x := 0; x < w; x++ {
			if gray.GrayAt(x, y).Y >= 0x80 {
				row[x>>3] |= 1 << (uint(x) & 7)
			}
		}
	}
	return out
}

// Unpack expands tight 1-bpp rows back into a black and white image.
func Unpack(packed []byte, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	tight := card.TightStride(w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if packed[y*tight+x>>3]&(1<<(uint(x)&7)) != 0 {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}

// LoadImage reads a PNG, JPEG or SVG file. SVGs are rasterized at w by h.
func LoadImage(path string, w, h int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Decode(bytes.NewReader(data))
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	case ".svg":
		return rasterizeSVG(data, w, h)
	default:
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}
}

func rasterizeSVG(data []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}
