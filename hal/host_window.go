//go:build !tinygo && cgo

package hal

import (
	"carousel/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const windowScale = 3

// RunWindow starts a desktop window that displays the framebuffer and forwards keyboard input.
// It blocks until the window closes.
func RunWindow(cfg HostConfig, newApp func(HAL) func() error) error {
	hh, err := New(cfg)
	if err != nil {
		return err
	}
	h := hh.(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("Carousel (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*windowScale, h.fb.height*windowScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	pix     []byte
	fbImg   *ebiten.Image
	scratch []byte
	gen     uint64
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil {
		g.pix = make([]byte, fb.width*fb.height*4)
		g.scratch = make([]byte, len(fb.front))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	if gen := fb.snapshot(g.scratch); gen != g.gen {
		g.gen = gen
		for y := 0; y < fb.height; y++ {
			row := g.scratch[y*fb.stride:]
			for x := 0; x < fb.width; x++ {
				var v byte
				if row[x>>3]&(1<<(uint(x)&7)) != 0 {
					v = 0xFF
				}
				j := (y*fb.width + x) * 4
				g.pix[j+0] = v
				g.pix[j+1] = v
				g.pix[j+2] = v
				g.pix[j+3] = 0xFF
			}
		}
		g.fbImg.WritePixels(g.pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
