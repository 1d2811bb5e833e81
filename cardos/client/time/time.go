package time

import (
	"fmt"

	"carousel/cardos/kernel"
	"carousel/cardos/proto"
)

// Timer is a one-shot timer backed by the time service. Starting it again
// supersedes the pending request; wakes for older requests are ignored.
//
// A Timer belongs to the task that created it.
type Timer struct {
	ctx     *kernel.Context
	timeCap kernel.Capability
	reply   kernel.Capability
	c       <-chan kernel.Message

	waiting uint32
	nextID  uint32
}

// NewTimer allocates the reply endpoint used by the timer.
func NewTimer(ctx *kernel.Context, timeCap kernel.Capability) (*Timer, error) {
	if ctx == nil {
		return nil, fmt.Errorf("time timer: nil context")
	}
	reply := ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if !reply.Valid() {
		return nil, fmt.Errorf("time timer: allocate reply endpoint")
	}
	c, ok := ctx.RecvChan(reply.Restrict(kernel.RightRecv))
	if !ok {
		return nil, fmt.Errorf("time timer: invalid reply capability")
	}
	return &Timer{ctx: ctx, timeCap: timeCap, reply: reply, c: c}, nil
}

// C delivers the replies of the time service. Pass each to Fired.
func (t *Timer) C() <-chan kernel.Message { return t.c }

// Start requests a wake after dt ticks.
func (t *Timer) Start(dt uint32) error {
	t.nextID++
	if t.nextID == 0 {
		t.nextID++
	}
	t.waiting = t.nextID
	res := t.ctx.SendToCapRetry(t.timeCap, uint16(proto.MsgSleep), proto.SleepPayload(t.waiting, dt), t.reply.Restrict(kernel.RightSend), 4)
	if res != kernel.SendOK {
		t.waiting = 0
		return fmt.Errorf("time sleep send: %s", res)
	}
	return nil
}

// Stop discards the pending request, if any.
func (t *Timer) Stop() { t.waiting = 0 }

// Pending reports whether a started timer has not fired or been stopped.
func (t *Timer) Pending() bool { return t.waiting != 0 }

// Fired reports whether msg completes the pending request. An error reply for
// the pending request completes it with an error.
func (t *Timer) Fired(msg *kernel.Message) (bool, error) {
	if t.waiting == 0 {
		return false, nil
	}
	switch proto.Kind(msg.Kind) {
	case proto.MsgWake:
		reqID, ok := proto.DecodeWakePayload(msg.Payload())
		if !ok {
			return false, fmt.Errorf("time wake: bad payload")
		}
		if reqID != t.waiting {
			return false, nil
		}
		t.waiting = 0
		return true, nil

	case proto.MsgError:
		code, ref, reqID, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok {
			return false, fmt.Errorf("time error: bad payload")
		}
		if reqID != 0 && reqID != t.waiting {
			return false, nil
		}
		t.waiting = 0
		return true, fmt.Errorf("time error: code=%s ref=%s", code, ref)

	default:
		return false, nil
	}
}

// Sleep blocks the calling task for dt ticks using t.
func (t *Timer) Sleep(dt uint32) error {
	if err := t.Start(dt); err != nil {
		return err
	}
	for msg := range t.c {
		done, err := t.Fired(&msg)
		if done || err != nil {
			return err
		}
	}
	return fmt.Errorf("time sleep: reply endpoint closed")
}
