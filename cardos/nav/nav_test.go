package nav

import (
	"strings"
	"testing"

	"carousel/cardos/notify"
	"carousel/cardos/proto"
)

type fakeHandle struct {
	cancelled int
	done      func()
}

func (h *fakeHandle) Cancel() { h.cancelled++ }

type fakeAnimator struct {
	handles []*fakeHandle
	tweens  [][]Tween
}

func (a *fakeAnimator) Schedule(target FrameSetter, tweens []Tween, done func()) Handle {
	for _, t := range tweens {
		target.SetFrame(t.Surface, t.From)
	}
	h := &fakeHandle{done: func() {
		for _, t := range tweens {
			target.SetFrame(t.Surface, t.To)
		}
		done()
	}}
	a.handles = append(a.handles, h)
	a.tweens = append(a.tweens, tweens)
	return h
}

// live counts scheduled transitions that were neither cancelled nor finished.
func (a *fakeAnimator) live() int {
	n := 0
	for _, h := range a.handles {
		if h.cancelled == 0 && h.done != nil {
			n++
		}
	}
	return n
}

func (a *fakeAnimator) finishLast() {
	h := a.handles[len(a.handles)-1]
	done := h.done
	h.done = nil
	done()
}

type bodies map[int]string

func (b bodies) Body(index int) string { return b[index%4] }

// lineMeasurer reports 24 pixels per 10 characters, rounded up.
type lineMeasurer struct{}

func (lineMeasurer) TextHeight(text string, width int) int {
	if text == "" {
		return 0
	}
	return (len(text) + 9) / 10 * 24
}

var testGeometry = Geometry{
	ScreenWidth:      144,
	ScreenHeight:     168,
	BackgroundHeight: 144,
	MinCardHeight:    54,
	MaxCardHeight:    102,
	CardPadding:      4,
	ExpandOffset:     95,
	WrapWidth:        142,
}

func newTestNavigator(total int) (*Navigator, *fakeAnimator, *[]notify.Event) {
	anim := &fakeAnimator{}
	var events []notify.Event
	n := New(testGeometry, total, bodies{}, lineMeasurer{}, anim, notify.Func(func(e notify.Event) {
		events = append(events, e)
	}))
	return n, anim, &events
}

func TestWatchfaceToListAndBack(t *testing.T) {
	n, _, _ := newTestNavigator(22)
	if n.Mode() != Watchface || n.Current() != 0 {
		t.Fatalf("unexpected initial state %s %d", n.Mode(), n.Current())
	}
	n.Release(proto.ButtonDown)
	if n.Mode() != List || n.Current() != 0 {
		t.Fatalf("expected list at 0, got %s %d", n.Mode(), n.Current())
	}
	n.Release(proto.ButtonUp)
	if n.Mode() != Watchface {
		t.Fatalf("expected watchface, got %s", n.Mode())
	}
}

func TestDownAdvancesAndStopsAtEnd(t *testing.T) {
	n, anim, _ := newTestNavigator(3)
	n.Release(proto.ButtonDown)
	anim.finishLast()

	for k := 0; k < 2; k++ {
		n.Release(proto.ButtonDown)
		if n.Current() != k+1 || n.Previous() != k {
			t.Fatalf("step %d: current=%d previous=%d", k, n.Current(), n.Previous())
		}
		anim.finishLast()
		if n.Previous() != n.Current() {
			t.Fatal("previous should equal current after the transition")
		}
	}

	scheduled := len(anim.handles)
	n.Release(proto.ButtonDown)
	if n.Current() != 2 || len(anim.handles) != scheduled {
		t.Fatalf("expected no-op at last card, current=%d", n.Current())
	}
}

func TestUpStepsBack(t *testing.T) {
	n, anim, _ := newTestNavigator(5)
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonUp)
	if n.Mode() != List || n.Current() != 1 || n.Previous() != 2 {
		t.Fatalf("got %s current=%d previous=%d", n.Mode(), n.Current(), n.Previous())
	}
	if anim.live() != 1 {
		t.Fatalf("expected one live transition, got %d", anim.live())
	}
}

func TestNewTransitionCancelsPrevious(t *testing.T) {
	n, anim, _ := newTestNavigator(10)
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	first := anim.handles[len(anim.handles)-1]
	n.Release(proto.ButtonDown)
	if first.cancelled != 1 {
		t.Fatalf("expected the pending transition to be cancelled once, got %d", first.cancelled)
	}
	if anim.live() != 1 {
		t.Fatalf("expected exactly one live transition, got %d", anim.live())
	}
	if !n.InFlight() {
		t.Fatal("expected a transition in flight")
	}
	anim.finishLast()
	if n.InFlight() {
		t.Fatal("expected no transition in flight")
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	n, anim, _ := newTestNavigator(10)
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	stale := anim.handles[len(anim.handles)-1].done
	n.Release(proto.ButtonDown)

	stale()
	if n.Previous() != 1 || n.Current() != 2 {
		t.Fatalf("stale completion changed state: current=%d previous=%d", n.Current(), n.Previous())
	}
	if !n.InFlight() {
		t.Fatal("stale completion cleared the active transition")
	}
}

func TestLongPressExpandsAndSwallowsRelease(t *testing.T) {
	n, anim, events := newTestNavigator(5)
	n.LongPress(proto.ButtonDown)
	if n.Mode() != Watchface {
		t.Fatal("long press on the watchface must not expand")
	}

	n.Release(proto.ButtonDown)
	anim.finishLast()
	n.LongPress(proto.ButtonDown)
	if n.Mode() != Expanded {
		t.Fatalf("expected expanded, got %s", n.Mode())
	}
	if len(*events) != 1 || (*events)[0] != (notify.Event{Kind: notify.Opened, Index: 0}) {
		t.Fatalf("unexpected events %v", *events)
	}

	n.Release(proto.ButtonDown)
	if n.Mode() != Expanded || n.Current() != 0 {
		t.Fatal("release ending the long press must be swallowed")
	}

	n.Release(proto.ButtonDown)
	if n.Mode() != List || n.Current() != 1 {
		t.Fatalf("expected collapse and advance, got %s %d", n.Mode(), n.Current())
	}
	last := anim.tweens[len(anim.tweens)-1]
	exp := last[len(last)-1]
	if exp.Surface != ExpandedSurface || exp.To.Y >= 0 {
		t.Fatalf("expected expanded view to leave upward, got %+v", exp)
	}
}

func TestUpCollapsesExpanded(t *testing.T) {
	n, anim, _ := newTestNavigator(5)
	n.Release(proto.ButtonDown)
	anim.finishLast()
	n.LongPress(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	anim.finishLast()

	card := n.Frame(CardA)
	if card.Y != 95-card.H {
		t.Fatalf("expected card above the detail view, got %+v", card)
	}

	n.Release(proto.ButtonUp)
	if n.Mode() != List || n.Current() != 0 {
		t.Fatalf("expected list at 0, got %s %d", n.Mode(), n.Current())
	}
	anim.finishLast()
	if f := n.Frame(ExpandedSurface); f.Y != 168 {
		t.Fatalf("expected detail view below the screen, got %+v", f)
	}
	if f := n.Frame(CardA); f.Y != 168-f.H {
		t.Fatalf("expected card at rest, got %+v", f)
	}
}

func TestDownAtLastCardCollapses(t *testing.T) {
	n, anim, _ := newTestNavigator(1)
	n.Release(proto.ButtonDown)
	anim.finishLast()
	n.LongPress(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	if n.Mode() != List || n.Current() != 0 {
		t.Fatalf("expected collapse without advancing, got %s %d", n.Mode(), n.Current())
	}
}

func TestSurfaceParity(t *testing.T) {
	n, anim, _ := newTestNavigator(10)
	n.Release(proto.ButtonDown)
	anim.finishLast()
	n.Release(proto.ButtonDown)

	if n.IndexOn(CardB) != 1 || n.IndexOn(CardA) != 0 {
		t.Fatalf("card surfaces show %d/%d", n.IndexOn(CardA), n.IndexOn(CardB))
	}
	last := anim.tweens[len(anim.tweens)-1]
	var sawOld, sawNew bool
	for _, tw := range last {
		switch tw.Surface {
		case CardA:
			sawOld = tw.To.Y < 0
		case CardB:
			sawNew = tw.To.Y == 168-tw.To.H
		}
	}
	if !sawOld || !sawNew {
		t.Fatalf("expected card A to leave and card B to arrive: %+v", last)
	}
}

func TestCardHeightClamps(t *testing.T) {
	b := bodies{0: "", 1: "short", 2: strings.Repeat("x", 200)}
	n := New(testGeometry, 4, b, lineMeasurer{}, nil, nil)
	if h := n.CardHeight(0); h != 58 {
		t.Fatalf("empty body: got %d", h)
	}
	if h := n.CardHeight(1); h != 82 {
		t.Fatalf("one line: got %d", h)
	}
	if h := n.CardHeight(2); h != 102 {
		t.Fatalf("overflow should clamp: got %d", h)
	}
	if h := n.CardHeight(6); h != 102 {
		t.Fatalf("index wraps to slot 2: got %d", h)
	}
}

func TestRelayoutRepositionsCurrent(t *testing.T) {
	b := bodies{}
	anim := &fakeAnimator{}
	n := New(testGeometry, 4, b, lineMeasurer{}, anim, nil)
	n.Release(proto.ButtonDown)
	anim.finishLast()

	b[0] = "hello"
	n.Relayout(0)
	if f := n.Frame(CardA); f.H != 82 || f.Y != 168-82 {
		t.Fatalf("expected relayout to 82px at rest, got %+v", f)
	}
}

func TestSelectAndBackNotify(t *testing.T) {
	n, anim, events := newTestNavigator(5)
	n.Release(proto.ButtonSelect)
	if len(*events) != 0 || n.ActionsOpen() {
		t.Fatal("watchface must not report selection")
	}
	n.Release(proto.ButtonDown)
	anim.finishLast()
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonBack)
	n.Release(proto.ButtonSelect)
	want := []notify.Event{{Kind: notify.Moved, Index: 1}, {Kind: notify.Moved, Index: 1}, {Kind: notify.ViewedAction, Index: 1}}
	if len(*events) != len(want) {
		t.Fatalf("got %v", *events)
	}
	for i := range want {
		if (*events)[i] != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, (*events)[i], want[i])
		}
	}
}

func TestStepsReportMoved(t *testing.T) {
	n, anim, events := newTestNavigator(5)
	n.Release(proto.ButtonDown)
	anim.finishLast()
	if len(*events) != 0 {
		t.Fatalf("leaving the watchface reported %v", *events)
	}

	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonDown)
	n.Release(proto.ButtonUp)
	want := []notify.Event{{Kind: notify.Moved, Index: 1}, {Kind: notify.Moved, Index: 2}, {Kind: notify.Moved, Index: 1}}
	if len(*events) != len(want) {
		t.Fatalf("got %v", *events)
	}
	for i := range want {
		if (*events)[i] != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, (*events)[i], want[i])
		}
	}

	// Back to card 0, then Up on the first card returns to the watchface silently.
	n.Release(proto.ButtonUp)
	n.Release(proto.ButtonUp)
	if n.Mode() != Watchface || len(*events) != 4 || (*events)[3] != (notify.Event{Kind: notify.Moved, Index: 0}) {
		t.Fatalf("mode=%s events=%v", n.Mode(), *events)
	}
}

func TestNoCardsKeepsWatchface(t *testing.T) {
	n, anim, events := newTestNavigator(0)
	n.Release(proto.ButtonDown)
	if n.Mode() != Watchface || n.Current() != 0 {
		t.Fatalf("expected watchface with no cards, got %s %d", n.Mode(), n.Current())
	}
	if len(anim.handles) != 0 || len(*events) != 0 {
		t.Fatalf("unexpected transition or events %v", *events)
	}
}

func TestActionsViewCapturesButtons(t *testing.T) {
	n, anim, events := newTestNavigator(5)
	n.Release(proto.ButtonDown)
	anim.finishLast()
	n.Release(proto.ButtonSelect)
	if !n.ActionsOpen() {
		t.Fatal("select should open the actions view")
	}

	scheduled := len(anim.handles)
	n.Release(proto.ButtonDown)
	n.LongPress(proto.ButtonDown)
	n.Release(proto.ButtonSelect)
	if n.Current() != 0 || n.Mode() != List || len(anim.handles) != scheduled || len(*events) != 1 {
		t.Fatalf("actions view leaked buttons: %s %d events=%v", n.Mode(), n.Current(), *events)
	}

	n.Release(proto.ButtonBack)
	if n.ActionsOpen() || len(*events) != 1 {
		t.Fatalf("back should close the actions view silently, events=%v", *events)
	}
	n.Release(proto.ButtonDown)
	if n.Current() != 1 {
		t.Fatalf("navigation did not resume, current=%d", n.Current())
	}
}

func TestNilAnimatorAppliesFinalFrames(t *testing.T) {
	n := New(testGeometry, 3, bodies{}, lineMeasurer{}, nil, nil)
	n.Release(proto.ButtonDown)
	if f := n.Frame(WatchfaceSurface); f.Y != -168 {
		t.Fatalf("expected watchface off screen, got %+v", f)
	}
	if n.InFlight() {
		t.Fatal("no transition should be in flight without an animator")
	}
}
