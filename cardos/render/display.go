package render

import (
	"image/color"

	"carousel/cardos/card"
	"carousel/hal"

	"tinygo.org/x/drivers"
)

var (
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black = color.RGBA{A: 0xFF}
)

var _ drivers.Displayer = (*fbDisplay)(nil)

// fbDisplay draws into a Mono1 framebuffer through a movable origin and a
// clip rectangle, so each surface paints in its own local coordinates.
type fbDisplay struct {
	fb     hal.Framebuffer
	ox, oy int
	// clip in screen coordinates, half-open
	x0, y0, x1, y1 int
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	d := &fbDisplay{fb: fb}
	d.reset()
	return d
}

// reset removes the origin and clips to the whole screen.
func (d *fbDisplay) reset() {
	d.ox, d.oy = 0, 0
	d.x0, d.y0 = 0, 0
	d.x1, d.y1 = 0, 0
	if d.fb != nil {
		d.x1, d.y1 = d.fb.Width(), d.fb.Height()
	}
}

// enter moves the origin to the frame and clips to it. It reports whether
// any of the frame is on screen.
func (d *fbDisplay) enter(x, y, w, h int) bool {
	d.ox, d.oy = x, y
	d.x0 = max(x, 0)
	d.y0 = max(y, 0)
	d.x1 = min(x+w, d.fb.Width())
	d.y1 = min(y+h, d.fb.Height())
	return d.x0 < d.x1 && d.y0 < d.y1
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.x1 - d.ox), int16(d.y1 - d.oy)
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.set(int(x), int(y), hal.MonoColor(c))
}

func (d *fbDisplay) set(x, y int, on bool) {
	sx, sy := x+d.ox, y+d.oy
	if sx < d.x0 || sx >= d.x1 || sy < d.y0 || sy >= d.y1 {
		return
	}
	buf := d.fb.Buffer()
	off := sy*d.fb.StrideBytes() + sx>>3
	if off >= len(buf) {
		return
	}
	bit := byte(1) << (uint(sx) & 7)
	if on {
		buf[off] |= bit
	} else {
		buf[off] &^= bit
	}
}

// Display is a no-op; the renderer presents once per frame.
func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	d.fill(int(x), int(y), int(width), int(height), hal.MonoColor(c))
	return nil
}

func (d *fbDisplay) fill(x, y, w, h int, on bool) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			d.set(px, py, on)
		}
	}
}

// fillRound fills a rectangle with corners of radius r cut away.
func (d *fbDisplay) fillRound(x, y, w, h, r int, on bool) {
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if outsideCorner(px, py, w, h, r) {
				continue
			}
			d.set(x+px, y+py, on)
		}
	}
}

// strokeRound draws a one pixel outline with rounded corners.
func (d *fbDisplay) strokeRound(x, y, w, h, r int, on bool) {
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if px != 0 && py != 0 && px != w-1 && py != h-1 {
				continue
			}
			if outsideCorner(px, py, w, h, r) {
				continue
			}
			d.set(x+px, y+py, on)
		}
	}
}

func outsideCorner(px, py, w, h, r int) bool {
	if r <= 0 {
		return false
	}
	cx, cy := -1, -1
	switch {
	case px < r:
		cx = r
	case px >= w-r:
		cx = w - r - 1
	}
	switch {
	case py < r:
		cy = r
	case py >= h-r:
		cy = h - r - 1
	}
	if cx < 0 || cy < 0 {
		return false
	}
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy > r*r
}

// blit copies v opaquely with its top-left corner at x, y.
func (d *fbDisplay) blit(v card.View, x, y int) {
	for py := 0; py < v.Height; py++ {
		sy := y + py + d.oy
		if sy < d.y0 || sy >= d.y1 {
			continue
		}
		for px := 0; px < v.Width; px++ {
			d.set(x+px, y+py, v.Pixel(px, py))
		}
	}
}
