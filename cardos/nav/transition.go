package nav

import "carousel/cardos/notify"

// resize updates card heights in place: the current card's surface gets the
// current height and the other card surface the previous card's height.
func (n *Navigator) resize() {
	cur := n.CardHeight(n.current)
	prev := n.CardHeight(n.previous)
	cs, ps := CardSurface(n.current), CardSurface(n.current+1)
	n.frames[cs].H = cur
	n.frames[ps].H = prev

	if n.mode == Watchface {
		n.frames[WatchfaceSurface] = Rect{0, 0, n.g.ScreenWidth, n.g.ScreenHeight}
		n.frames[CardA] = Rect{0, n.g.ScreenHeight - n.g.MinCardHeight, n.g.ScreenWidth, n.frames[CardA].H}
	} else {
		n.frames[WatchfaceSurface] = Rect{0, -n.g.ScreenHeight, n.g.ScreenWidth, n.g.ScreenHeight}
	}
}

// repositionCurrent places the selected card and background at rest and moves
// the other pair off screen.
func (n *Navigator) repositionCurrent() {
	if n.mode == Watchface {
		return
	}
	h := n.g.ScreenHeight
	cs, ps := CardSurface(n.current), CardSurface(n.current+1)
	n.frames[ps].Y = h
	n.frames[cs].Y = n.restY(n.frames[cs].H)
	n.frames[BackSurface(n.current)] = n.backAt(0)
	n.frames[BackSurface(n.current+1)] = n.backAt(n.g.BackgroundHeight)
}

// restY is the resting top of a card of height h in the current mode.
func (n *Navigator) restY(h int) int {
	if n.mode == Expanded {
		return n.g.ExpandOffset - h
	}
	return n.g.ScreenHeight - h
}

func (n *Navigator) backAt(y int) Rect {
	return Rect{0, y, n.g.ScreenWidth, n.g.BackgroundHeight}
}

func (n *Navigator) cardAt(y, h int) Rect {
	return Rect{0, y, n.g.ScreenWidth, h}
}

func (n *Navigator) expandedAt(y int) Rect {
	return Rect{0, y, n.g.ScreenWidth, n.g.ScreenHeight - n.g.ExpandOffset}
}

// cancel drops the transition in flight, if any.
func (n *Navigator) cancel() {
	if n.active != nil {
		n.active.Cancel()
		n.active = nil
	}
}

// schedule cancels the transition in flight and starts tweens as its replacement.
func (n *Navigator) schedule(tweens []Tween) {
	n.cancel()
	n.seq++
	seq := n.seq
	if n.anim == nil {
		for _, t := range tweens {
			n.frames[t.Surface] = t.To
		}
		n.finish(seq)
		return
	}
	h := n.anim.Schedule(n, tweens, func() { n.finish(seq) })
	if seq == n.seq && n.finished != seq {
		n.active = h
	}
}

// finish completes the transition numbered seq. Completions of replaced
// transitions are ignored.
func (n *Navigator) finish(seq uint64) {
	if seq != n.seq {
		return
	}
	n.finished = seq
	n.active = nil
	n.previous = n.current
	n.resize()
}

// step moves the selection by delta (+1 or -1) with a paired slide.
func (n *Navigator) step(delta int) {
	fromExpanded := n.mode == Expanded
	n.cancel()
	n.previous = n.current
	n.current += delta
	n.mode = List
	n.resize()

	h, bh := n.g.ScreenHeight, n.g.BackgroundHeight
	oldCard, newCard := CardSurface(n.previous), CardSurface(n.current)
	oldBack, newBack := BackSurface(n.previous), BackSurface(n.current)
	oldH, newH := n.frames[oldCard].H, n.frames[newCard].H

	oldCardFrom := n.frames[oldCard]
	if !fromExpanded {
		oldCardFrom = n.cardAt(h-oldH, oldH)
	}

	var tweens []Tween
	if delta > 0 {
		tweens = []Tween{
			{oldBack, n.backAt(0), n.backAt(-bh), Linear},
			{newBack, n.backAt(bh), n.backAt(0), EaseOut},
			{oldCard, oldCardFrom, n.cardAt(-oldH, oldH), Linear},
			{newCard, n.cardAt(2*h-newH, newH), n.cardAt(h-newH, newH), EaseOut},
		}
	} else {
		tweens = []Tween{
			{oldBack, n.backAt(0), n.backAt(bh), Linear},
			{newBack, n.backAt(-bh), n.backAt(0), EaseOut},
			{oldCard, oldCardFrom, n.cardAt(2*h-oldH, oldH), Linear},
			{newCard, n.cardAt(-newH, newH), n.cardAt(h-newH, newH), EaseOut},
		}
	}
	if fromExpanded {
		off := h - n.g.ExpandOffset
		tweens = append(tweens, Tween{ExpandedSurface, n.expandedAt(n.g.ExpandOffset), n.expandedAt(-off), EaseOut})
	}
	n.schedule(tweens)
	n.notify.Notify(notify.Event{Kind: notify.Moved, Index: n.current})
}

// hideWatchface slides the watchface up and raises the first card.
func (n *Navigator) hideWatchface() {
	n.cancel()
	n.current, n.previous = 0, 0
	n.resize()
	n.mode = List
	n.frames[BackSurface(0)] = n.backAt(0)
	n.frames[BackSurface(1)] = n.backAt(n.g.BackgroundHeight)

	h := n.g.ScreenHeight
	ch := n.frames[CardA].H
	n.schedule([]Tween{
		{CardA, n.cardAt(h-n.g.MinCardHeight, ch), n.cardAt(h-ch, ch), EaseOut},
		{WatchfaceSurface, Rect{0, 0, n.g.ScreenWidth, h}, Rect{0, -h, n.g.ScreenWidth, h}, Linear},
	})
}

// showWatchface drops the watchface over the first card.
func (n *Navigator) showWatchface() {
	n.cancel()
	n.resize()
	n.repositionCurrent()
	n.mode = Watchface

	h := n.g.ScreenHeight
	cs := CardSurface(n.current)
	ch := n.frames[cs].H
	n.schedule([]Tween{
		{cs, n.cardAt(h-ch, ch), n.cardAt(h-n.g.MinCardHeight, ch), EaseOut},
		{WatchfaceSurface, Rect{0, -h, n.g.ScreenWidth, h}, Rect{0, 0, n.g.ScreenWidth, h}, EaseOut},
	})
}

// showExpanded lifts the current card and slides the detail view in below it.
func (n *Navigator) showExpanded() {
	n.cancel()
	n.mode = Expanded
	cs := CardSurface(n.current)
	from := n.frames[cs]
	e := n.g.ExpandOffset
	n.schedule([]Tween{
		{cs, from, n.cardAt(e-from.H, from.H), EaseOut},
		{ExpandedSurface, n.expandedAt(n.g.ScreenHeight), n.expandedAt(e), EaseOut},
	})
}

// collapse closes the detail view. With toBottom set the view slides back
// below the screen; otherwise it leaves through the top.
func (n *Navigator) collapse(toBottom bool) {
	n.cancel()
	n.mode = List
	cs := CardSurface(n.current)
	from := n.frames[cs]
	h, e := n.g.ScreenHeight, n.g.ExpandOffset
	to := n.expandedAt(h)
	if !toBottom {
		to = n.expandedAt(-(h - e))
	}
	n.schedule([]Tween{
		{cs, from, n.cardAt(h-from.H, from.H), EaseOut},
		{ExpandedSurface, n.expandedAt(e), to, EaseOut},
	})
}
