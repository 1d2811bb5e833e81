package kernel

import (
	"testing"
	"time"
)

func recvWithTimeout[T any](t *testing.T, ch <-chan T, d time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(d):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func TestMessagePayloadClampsLen(t *testing.T) {
	var msg Message
	msg.Len = MaxMessageBytes + 10
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("expected payload length %d, got %d", MaxMessageBytes, got)
	}
}

func TestRestrictDropsRights(t *testing.T) {
	k := New()
	c := k.NewEndpoint(RightSend)
	if r := c.Restrict(RightRecv); r.Valid() {
		t.Fatal("expected restrict to an absent right to be invalid")
	}
	if r := c.Restrict(RightSend | RightRecv); !r.Valid() || r.canRecv() {
		t.Fatalf("unexpected restricted capability %+v", r)
	}
}

func TestContextRecvClosed(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	close(k.endpoints[ep.ep])

	if _, ok := ctx.Recv(ep.Restrict(RightRecv)); ok {
		t.Fatal("expected Recv to fail after channel close")
	}
	if _, ok := ctx.TryRecv(ep.Restrict(RightRecv)); ok {
		t.Fatal("expected TryRecv to fail after channel close")
	}
}

func TestContextSendClosed(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}
	close(k.endpoints[ep.ep])

	res := ctx.SendToCapResult(ep.Restrict(RightSend), 1, []byte("x"), Capability{})
	if res != SendErrNoEndpoint {
		t.Fatalf("expected SendErrNoEndpoint, got %s", res)
	}
}

func TestSendRejectsOversizedPayload(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}
	res := ctx.SendToCapResult(ep, 1, make([]byte, MaxMessageBytes+1), Capability{})
	if res != SendErrPayloadTooLarge {
		t.Fatalf("expected SendErrPayloadTooLarge, got %s", res)
	}
}

func TestSendRecvTransfersCapability(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	reply := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	if res := ctx.SendToCapResult(ep.Restrict(RightSend), 7, []byte("abc"), reply.Restrict(RightSend)); res != SendOK {
		t.Fatalf("send: %s", res)
	}
	msg, ok := ctx.TryRecv(ep.Restrict(RightRecv))
	if !ok {
		t.Fatal("expected a message")
	}
	if msg.Kind != 7 || string(msg.Payload()) != "abc" {
		t.Fatalf("unexpected message kind=%d payload=%q", msg.Kind, msg.Payload())
	}
	if !msg.Cap.Valid() || msg.Cap.ep != reply.ep {
		t.Fatalf("expected reply capability, got %+v", msg.Cap)
	}
}

func TestSendToCapRetryZeroLimitDoesNotBlock(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}
	to := ep.Restrict(RightSend)

	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(to, 1, []byte("x"), Capability{}); res != SendOK {
			t.Fatalf("expected SendOK filling queue, got %s", res)
		}
	}

	res := ctx.SendToCapRetry(to, 1, []byte("y"), Capability{}, 0)
	if res != SendErrQueueFull {
		t.Fatalf("expected SendErrQueueFull, got %s", res)
	}
}

func TestSendToCapRetrySucceedsAfterDrain(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}
	to := ep.Restrict(RightSend)
	ch, ok := ctx.RecvChan(ep.Restrict(RightRecv))
	if !ok {
		t.Fatal("expected recv channel")
	}

	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(to, 1, []byte("x"), Capability{}); res != SendOK {
			t.Fatalf("expected SendOK filling queue, got %s", res)
		}
	}

	resultCh := make(chan SendResult, 1)
	go func() {
		resultCh <- ctx.SendToCapRetry(to, 1, []byte("y"), Capability{}, 5)
	}()

	<-ch
	go func() {
		for i := uint64(1); i <= 10; i++ {
			k.TickTo(i)
			time.Sleep(time.Millisecond)
		}
	}()

	if res := recvWithTimeout(t, resultCh, 500*time.Millisecond); res != SendOK {
		t.Fatalf("expected SendOK after drain, got %s", res)
	}
}

func TestWaitTickWakesOnAdvance(t *testing.T) {
	k := New()
	ctx := &Context{k: k}
	got := make(chan uint64, 1)
	go func() { got <- ctx.WaitTick(0) }()

	time.Sleep(5 * time.Millisecond)
	k.TickTo(3)
	if v := recvWithTimeout(t, got, 500*time.Millisecond); v != 3 {
		t.Fatalf("expected tick 3, got %d", v)
	}

	k.TickTo(2)
	if now := ctx.NowTick(); now != 3 {
		t.Fatalf("tick went backwards: %d", now)
	}
}

type panicTask struct{}

func (panicTask) Run(ctx *Context) { panic("boom") }

func TestAddTaskReportsPanic(t *testing.T) {
	k := New()
	infos := make(chan PanicInfo, 1)
	k.OnPanic(func(info PanicInfo) { infos <- info })

	id := k.AddTask(panicTask{})
	info := recvWithTimeout(t, infos, time.Second)
	if info.TaskID != id || info.Value != "boom" {
		t.Fatalf("unexpected panic info %+v", info)
	}
	if len(info.Stack) == 0 {
		t.Fatal("expected a stack trace")
	}
}
