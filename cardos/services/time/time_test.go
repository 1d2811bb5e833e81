package timesvc

import (
	"testing"
	"time"

	"carousel/cardos/kernel"
	"carousel/cardos/proto"
)

type ctxTask struct {
	ctx chan *kernel.Context
}

func (t *ctxTask) Run(ctx *kernel.Context) { t.ctx <- ctx }

func setup(t *testing.T) (*kernel.Kernel, *kernel.Context, kernel.Capability, kernel.Capability) {
	t.Helper()
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	reply := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(New(ep.Restrict(kernel.RightRecv)))
	task := &ctxTask{ctx: make(chan *kernel.Context, 1)}
	k.AddTask(task)
	return k, <-task.ctx, ep.Restrict(kernel.RightSend), reply
}

func recv(t *testing.T, ctx *kernel.Context, c kernel.Capability) kernel.Message {
	t.Helper()
	ch, _ := ctx.RecvChan(c.Restrict(kernel.RightRecv))
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
	}
	return kernel.Message{}
}

func TestZeroSleepWakesImmediately(t *testing.T) {
	_, ctx, svc, reply := setup(t)

	ctx.SendToCapResult(svc, uint16(proto.MsgSleep), proto.SleepPayload(7, 0), reply.Restrict(kernel.RightSend))
	msg := recv(t, ctx, reply)
	id, ok := proto.DecodeWakePayload(msg.Payload())
	if proto.Kind(msg.Kind) != proto.MsgWake || !ok || id != 7 {
		t.Fatalf("got kind=%s id=%d", proto.Kind(msg.Kind), id)
	}
}

func TestSleepWakesAfterDeadline(t *testing.T) {
	k, ctx, svc, reply := setup(t)

	ctx.SendToCapResult(svc, uint16(proto.MsgSleep), proto.SleepPayload(9, 10), reply.Restrict(kernel.RightSend))
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for i := uint64(1); ; i++ {
			select {
			case <-stop:
				return
			case <-time.After(time.Millisecond):
				k.TickTo(i)
			}
		}
	}()

	msg := recv(t, ctx, reply)
	id, _ := proto.DecodeWakePayload(msg.Payload())
	if proto.Kind(msg.Kind) != proto.MsgWake || id != 9 {
		t.Fatalf("got kind=%s id=%d", proto.Kind(msg.Kind), id)
	}
	if now := ctx.NowTick(); now < 10 {
		t.Fatalf("woke at tick %d, before the deadline", now)
	}
}

func TestBadSleepPayloadReportsError(t *testing.T) {
	_, ctx, svc, reply := setup(t)

	ctx.SendToCapResult(svc, uint16(proto.MsgSleep), []byte{1, 2}, reply.Restrict(kernel.RightSend))
	msg := recv(t, ctx, reply)
	code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
	if proto.Kind(msg.Kind) != proto.MsgError || !ok || code != proto.ErrBadMessage || ref != proto.MsgSleep {
		t.Fatalf("got kind=%s code=%s ref=%s", proto.Kind(msg.Kind), code, ref)
	}
}

func TestScheduleOverflow(t *testing.T) {
	s := New(kernel.Capability{})
	for i := 0; i < maxSleepers; i++ {
		if !s.schedule(100, uint32(i), kernel.Capability{}) {
			t.Fatalf("schedule %d failed", i)
		}
	}
	if s.schedule(100, 99, kernel.Capability{}) {
		t.Fatal("expected overflow")
	}
}
