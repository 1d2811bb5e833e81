// Package nav implements the carousel navigation state machine.
//
// The Navigator owns the frames of six on-screen surfaces. Each button event
// may cancel the transition in flight and schedule exactly one replacement
// through an Animator, which writes intermediate frames back via SetFrame.
package nav

import (
	"carousel/cardos/notify"
	"carousel/cardos/proto"
)

// Mode is the visible navigation mode.
type Mode uint8

const (
	Watchface Mode = iota
	List
	Expanded
)

func (m Mode) String() string {
	switch m {
	case Watchface:
		return "watchface"
	case List:
		return "list"
	case Expanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// Surface names one on-screen layer. The order is the paint order.
type Surface uint8

const (
	BackA Surface = iota
	BackB
	WatchfaceSurface
	CardA
	CardB
	ExpandedSurface

	SurfaceCount
)

func (s Surface) String() string {
	switch s {
	case BackA:
		return "back_a"
	case BackB:
		return "back_b"
	case WatchfaceSurface:
		return "watchface"
	case CardA:
		return "card_a"
	case CardB:
		return "card_b"
	case ExpandedSurface:
		return "expanded"
	default:
		return "unknown"
	}
}

// CardSurface returns the card surface for index; even indices use A.
func CardSurface(index int) Surface {
	if index%2 == 0 {
		return CardA
	}
	return CardB
}

// BackSurface returns the background surface for index.
func BackSurface(index int) Surface {
	if index%2 == 0 {
		return BackA
	}
	return BackB
}

// Rect is a surface frame in screen coordinates.
type Rect struct {
	X, Y, W, H int
}

// Curve is a tween timing function.
type Curve uint8

const (
	Linear Curve = iota
	EaseOut
)

// Tween moves one surface from one frame to another.
type Tween struct {
	Surface Surface
	From    Rect
	To      Rect
	Curve   Curve
}

// FrameSetter receives frames computed by an Animator.
type FrameSetter interface {
	SetFrame(s Surface, r Rect)
}

// Handle identifies a scheduled transition.
type Handle interface {
	// Cancel stops the transition synchronously. Cancelling twice is a no-op.
	Cancel()
}

// Animator schedules a group of tweens that run together for a fixed duration.
// done runs once after the last frame unless the handle was cancelled.
type Animator interface {
	Schedule(target FrameSetter, tweens []Tween, done func()) Handle
}

// Measurer measures wrapped text height in pixels.
type Measurer interface {
	TextHeight(text string, width int) int
}

// Source provides the body text of a card index.
type Source interface {
	Body(index int) string
}

// Geometry holds the screen layout constants.
type Geometry struct {
	ScreenWidth      int
	ScreenHeight     int
	BackgroundHeight int

	MinCardHeight int
	MaxCardHeight int
	CardPadding   int

	// ExpandOffset is the top of the expanded detail view when open.
	ExpandOffset int
	// WrapWidth is the body text width used for height measurement.
	WrapWidth int
}

// Navigator tracks the selected card, the mode and the surface frames.
//
// It is not safe for concurrent use.
type Navigator struct {
	g      Geometry
	src    Source
	meas   Measurer
	anim   Animator
	notify notify.Notifier

	mode      Mode
	current   int
	previous  int
	total     int
	longPress bool
	actions   bool

	frames [SurfaceCount]Rect

	active   Handle
	seq      uint64
	finished uint64
}

// New returns a navigator showing the watchface.
func New(g Geometry, total int, src Source, meas Measurer, anim Animator, n notify.Notifier) *Navigator {
	if n == nil {
		n = notify.Discard
	}
	nv := &Navigator{
		g:      g,
		src:    src,
		meas:   meas,
		anim:   anim,
		notify: n,
		total:  total,
	}
	w, h, bh := g.ScreenWidth, g.ScreenHeight, g.BackgroundHeight
	nv.frames[BackA] = Rect{0, 0, w, bh}
	nv.frames[BackB] = Rect{0, h, w, bh}
	nv.frames[WatchfaceSurface] = Rect{0, 0, w, h}
	nv.frames[CardA] = Rect{0, h, w, h}
	nv.frames[CardB] = Rect{0, h, w, h}
	nv.frames[ExpandedSurface] = Rect{0, h, w, h - g.ExpandOffset}
	nv.resize()
	return nv
}

func (n *Navigator) Mode() Mode     { return n.mode }
func (n *Navigator) Current() int   { return n.current }
func (n *Navigator) Previous() int  { return n.previous }
func (n *Navigator) Total() int     { return n.total }
func (n *Navigator) InFlight() bool { return n.active != nil }

// ActionsOpen reports whether the actions view of the current card covers
// the screen. Select opens it and Back closes it.
func (n *Navigator) ActionsOpen() bool { return n.actions }

// Frame returns the current frame of s.
func (n *Navigator) Frame(s Surface) Rect { return n.frames[s] }

// SetFrame stores a frame. Animators call it for every intermediate step.
func (n *Navigator) SetFrame(s Surface, r Rect) {
	if s < SurfaceCount {
		n.frames[s] = r
	}
}

// IndexOn returns the card index shown on a card or background surface: the
// current card when the surface parity matches it, the previous one otherwise.
func (n *Navigator) IndexOn(s Surface) int {
	parity := 0
	if s == BackB || s == CardB {
		parity = 1
	}
	if n.current%2 == parity {
		return n.current
	}
	return n.previous
}

// CardHeight is the clamped card height for index.
func (n *Navigator) CardHeight(index int) int {
	h := n.g.MinCardHeight + n.g.CardPadding
	if n.src != nil && n.meas != nil {
		h += n.meas.TextHeight(n.src.Body(index), n.g.WrapWidth)
	}
	if h > n.g.MaxCardHeight {
		h = n.g.MaxCardHeight
	}
	if h < n.g.MinCardHeight {
		h = n.g.MinCardHeight
	}
	return h
}

// Handle applies one button event.
func (n *Navigator) Handle(b proto.Button, a proto.ButtonAction) {
	switch a {
	case proto.ActionRelease:
		n.Release(b)
	case proto.ActionLongPress:
		n.LongPress(b)
	}
}

// Release handles a click release.
func (n *Navigator) Release(b proto.Button) {
	if n.actions {
		if b == proto.ButtonBack {
			n.actions = false
		}
		return
	}
	switch b {
	case proto.ButtonDown:
		n.releaseDown()
	case proto.ButtonUp:
		n.releaseUp()
	case proto.ButtonSelect:
		if n.mode != Watchface {
			n.actions = true
			n.notify.Notify(notify.Event{Kind: notify.ViewedAction, Index: n.current})
		}
	case proto.ButtonBack:
		if n.mode != Watchface {
			n.notify.Notify(notify.Event{Kind: notify.Moved, Index: n.current})
		}
	}
}

// LongPress handles a press held past the long-press threshold.
func (n *Navigator) LongPress(b proto.Button) {
	if b != proto.ButtonDown || n.mode != List || n.actions {
		return
	}
	n.longPress = true
	n.showExpanded()
	n.notify.Notify(notify.Event{Kind: notify.Opened, Index: n.current})
}

func (n *Navigator) releaseDown() {
	if n.longPress {
		n.longPress = false
		return
	}
	switch n.mode {
	case Watchface:
		if n.total > 0 {
			n.hideWatchface()
		}
	case List:
		if n.current < n.total-1 {
			n.step(+1)
		}
	case Expanded:
		if n.current < n.total-1 {
			n.step(+1)
		} else {
			n.collapse(false)
		}
	}
}

func (n *Navigator) releaseUp() {
	switch n.mode {
	case Expanded:
		n.collapse(true)
	case List:
		if n.current > 0 {
			n.step(-1)
		} else {
			n.showWatchface()
		}
	}
}

// Relayout recomputes card heights after the text of id changed. The visible
// card is repositioned only while no transition is in flight.
func (n *Navigator) Relayout(id int) {
	n.resize()
	if id != n.current || n.active != nil {
		return
	}
	n.repositionCurrent()
}
