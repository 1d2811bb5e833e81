// Package render paints the carousel surfaces into a 1-bpp framebuffer.
//
// Each surface kind has one paint function, parametrized by the card index
// the navigator reports for it. Surfaces are painted bottom to top in the
// nav.Surface order and clipped to their frames.
package render

import (
	"image/color"

	"carousel/cardos/card"
	"carousel/cardos/nav"
	"carousel/hal"

	"tinygo.org/x/tinyfont"
)

// Icon box placement, measured from the card's top right corner.
const (
	iconBox    = 54
	iconInset  = 3
	iconRadius = 3
	textInset  = 2

	titleTopTwoLines = 12
	titleTopOneLine  = 26

	// The expanded body continues where the card's body left off.
	expandedBodyTop = -55
	cardBodyHeight  = 60
)

// Scene is the navigation state the renderer reads.
type Scene interface {
	Mode() nav.Mode
	Current() int
	Frame(s nav.Surface) nav.Rect
	IndexOn(s nav.Surface) int
	// ActionsOpen puts the actions text of the current card over everything.
	ActionsOpen() bool
}

// Layout holds the geometry the paint functions need beyond the frames.
type Layout struct {
	MinCardHeight int
}

// Renderer paints a scene. It only reads the cache.
type Renderer struct {
	fb     hal.Framebuffer
	d      *fbDisplay
	fonts  Fonts
	layout Layout
}

// New returns a renderer drawing into fb, which must be Mono1.
func New(fb hal.Framebuffer, layout Layout, fonts Fonts) *Renderer {
	return &Renderer{fb: fb, d: newFBDisplay(fb), fonts: fonts, layout: layout}
}

// Paint draws every visible surface and presents the frame. clock is the text
// shown on the watchface.
func (r *Renderer) Paint(sc Scene, cache *card.Cache, clock string) error {
	if r.fb == nil || r.fb.Format() != hal.PixelFormatMono1 {
		return hal.ErrNotImplemented
	}
	r.fb.ClearMono(false)
	for s := nav.Surface(0); s < nav.SurfaceCount; s++ {
		f := sc.Frame(s)
		if !r.d.enter(f.X, f.Y, f.W, f.H) {
			continue
		}
		switch s {
		case nav.BackA, nav.BackB:
			r.paintBack(sc, cache, s)
		case nav.WatchfaceSurface:
			r.paintWatchface(clock)
		case nav.CardA, nav.CardB:
			r.paintCard(cache, sc.IndexOn(s), sc.Mode() == nav.Expanded)
		case nav.ExpandedSurface:
			r.paintExpanded(cache, sc.Current(), f.W)
		}
	}
	if sc.ActionsOpen() && r.d.enter(0, 0, r.fb.Width(), r.fb.Height()) {
		r.paintActions(cache, sc.Current())
	}
	r.d.reset()
	return r.fb.Present()
}

// paintBack draws the background of the card on s, shifted up by a quarter of
// that card's height.
func (r *Renderer) paintBack(sc Scene, cache *card.Cache, s nav.Surface) {
	idx := sc.IndexOn(s)
	cardH := sc.Frame(nav.CardSurface(idx)).H
	slot := cache.Get(int32(idx))
	r.d.blit(slot.Background.View(), 0, -(cardH / 4))
}

func (r *Renderer) paintCard(cache *card.Cache, idx int, expanded bool) {
	slot := cache.Get(int32(idx))
	w, h := r.d.Size()
	width := int(w)

	titleWidth := width - textInset - iconBox
	title := slot.Title.String()
	top := titleTopOneLine
	if len(Wrap(r.fonts.Title, title, titleWidth)) > 1 {
		top = titleTopTwoLines
	}
	r.d.fill(0, top, width, int(h)-top, true)

	r.d.strokeRound(width-iconBox, 0, iconBox, iconBox, iconRadius, true)
	r.d.fillRound(width-iconBox+1, 1, iconBox-2, iconBox-2, iconRadius, false)
	r.d.blit(slot.Icon.View(), width-iconBox+iconInset, iconInset)

	r.drawLines(r.fonts.Title, Wrap(r.fonts.Title, title, titleWidth), textInset, top, 1, black)

	body := Wrap(r.fonts.Body, slot.Body.String(), width-textInset)
	maxLines := cardBodyHeight / lineHeight(r.fonts.Body)
	if !expanded && len(body) > maxLines {
		body = ellipsize(r.fonts.Body, body[:maxLines], width-textInset)
	}
	r.drawLines(r.fonts.Body, body, textInset, r.layout.MinCardHeight-7, maxLines, black)
}

func (r *Renderer) paintWatchface(clock string) {
	w, h := r.d.Size()
	r.d.fill(0, 0, int(w), int(h), false)
	r.drawLines(r.fonts.Clock, Wrap(r.fonts.Clock, clock, int(w)-2*textInset), textInset, textInset, 0, white)
}

func (r *Renderer) paintExpanded(cache *card.Cache, idx, width int) {
	_, h := r.d.Size()
	r.d.fill(0, 0, width, int(h), true)
	slot := cache.Get(int32(idx))
	r.drawLines(r.fonts.Body, Wrap(r.fonts.Body, slot.Body.String(), width-textInset), textInset, expandedBodyTop, 0, black)
}

// paintActions fills the screen white and lists the actions text in black.
func (r *Renderer) paintActions(cache *card.Cache, idx int) {
	w, h := r.d.Size()
	r.d.fill(0, 0, int(w), int(h), true)
	text := cache.Get(int32(idx)).Actions.String()
	r.drawLines(r.fonts.Body, Wrap(r.fonts.Body, text, int(w)-2*textInset), textInset, textInset, 0, black)
}

// drawLines writes lines from the top y, at most limit of them when limit is
// positive.
func (r *Renderer) drawLines(f tinyfont.Fonter, lines []string, x, y, limit int, c color.RGBA) {
	lh := lineHeight(f)
	for i, line := range lines {
		if limit > 0 && i >= limit {
			return
		}
		baseline := y + (i+1)*lh - lh/4
		tinyfont.WriteLine(r.d, f, int16(x), int16(baseline), line, c)
	}
}

func lineHeight(f tinyfont.Fonter) int {
	if h := int(f.GetYAdvance()); h > 0 {
		return h
	}
	return 1
}

// ellipsize replaces the tail of the last line with "..." so it fits width.
func ellipsize(f tinyfont.Fonter, lines []string, width int) []string {
	if len(lines) == 0 {
		return lines
	}
	out := append([]string(nil), lines...)
	last := []rune(out[len(out)-1])
	for len(last) > 0 && textWidth(f, string(last)+"...") > width {
		last = last[:len(last)-1]
	}
	out[len(out)-1] = string(last) + "..."
	return out
}
