// Package notify reports carousel state changes to the paired host.
package notify

import (
	"fmt"

	"carousel/cardos/kernel"
	"carousel/cardos/proto"
)

// Kind is the type of an outbound event.
type Kind uint8

const (
	Ready Kind = iota
	Opened
	Moved
	ViewedAction
)

func (k Kind) String() string {
	switch k {
	case Ready:
		return "ready"
	case Opened:
		return "opened"
	case Moved:
		return "moved"
	case ViewedAction:
		return "viewed_action"
	default:
		return "unknown"
	}
}

// Event is one outbound notification.
type Event struct {
	Kind  Kind
	Index int
}

func (e Event) String() string {
	if e.Kind == Ready {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", e.Kind, e.Index)
}

// Mode returns the wire mode code and whether the event carries an index.
func (e Event) Mode() (proto.EventMode, bool) {
	switch e.Kind {
	case Opened:
		return proto.ModeReady, true
	case Moved:
		return proto.ModeReport, true
	case ViewedAction:
		return proto.ModeAction, true
	default:
		return proto.ModeReady, false
	}
}

// Payload encodes e as a link dictionary.
func (e Event) Payload() ([]byte, error) {
	mode, hasIndex := e.Mode()
	return proto.EventPayload(mode, int32(e.Index), hasIndex)
}

// Notifier delivers events without acknowledgement. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

// Func adapts a function to Notifier.
type Func func(Event)

func (f Func) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Notifier = Func(func(Event) {})

// LinkNotifier sends events to the link service as MsgLinkSend.
//
// It must only be used from the task that owns ctx. Events are dropped when
// the link queue is full.
type LinkNotifier struct {
	ctx     *kernel.Context
	linkCap kernel.Capability

	Dropped uint32
}

func NewLinkNotifier(ctx *kernel.Context, linkCap kernel.Capability) *LinkNotifier {
	return &LinkNotifier{ctx: ctx, linkCap: linkCap}
}

func (n *LinkNotifier) Notify(e Event) {
	if n.ctx == nil || !n.linkCap.Valid() {
		n.Dropped++
		return
	}
	b, err := e.Payload()
	if err != nil {
		n.Dropped++
		return
	}
	res := n.ctx.SendToCapResult(n.linkCap, uint16(proto.MsgLinkSend), b, kernel.Capability{})
	if res != kernel.SendOK {
		n.Dropped++
	}
}
