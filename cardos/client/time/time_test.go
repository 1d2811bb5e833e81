package time

import (
	"testing"
	gotime "time"

	"carousel/cardos/kernel"
	timesvc "carousel/cardos/services/time"
)

type ctxTask struct {
	ctx chan *kernel.Context
}

func (t *ctxTask) Run(ctx *kernel.Context) { t.ctx <- ctx }

func startTicking(k *kernel.Kernel) func() {
	stop := make(chan struct{})
	go func() {
		for i := uint64(1); ; i++ {
			select {
			case <-stop:
				return
			case <-gotime.After(gotime.Millisecond):
				k.TickTo(i)
			}
		}
	}()
	return func() { close(stop) }
}

func setup(t *testing.T) (*kernel.Kernel, *Timer) {
	t.Helper()
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(timesvc.New(ep.Restrict(kernel.RightRecv)))
	task := &ctxTask{ctx: make(chan *kernel.Context, 1)}
	k.AddTask(task)
	timer, err := NewTimer(<-task.ctx, ep.Restrict(kernel.RightSend))
	if err != nil {
		t.Fatalf("NewTimer: %v", err)
	}
	return k, timer
}

func TestSleepReturnsAfterTicks(t *testing.T) {
	k, timer := setup(t)
	defer startTicking(k)()

	done := make(chan error, 1)
	go func() { done <- timer.Sleep(5) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Sleep: %v", err)
		}
	case <-gotime.After(gotime.Second):
		t.Fatal("Sleep did not return")
	}
}

func TestRestartIgnoresSupersededWake(t *testing.T) {
	k, timer := setup(t)

	if err := timer.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	first := <-timer.C()
	if err := timer.Start(3); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if fired, err := timer.Fired(&first); fired || err != nil {
		t.Fatalf("stale wake fired=%v err=%v", fired, err)
	}

	defer startTicking(k)()
	select {
	case msg := <-timer.C():
		if fired, err := timer.Fired(&msg); !fired || err != nil {
			t.Fatalf("fired=%v err=%v", fired, err)
		}
	case <-gotime.After(gotime.Second):
		t.Fatal("timer did not fire")
	}
	if timer.Pending() {
		t.Fatal("timer still pending after firing")
	}
}

func TestStopDiscardsWake(t *testing.T) {
	_, timer := setup(t)

	if err := timer.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	timer.Stop()
	msg := <-timer.C()
	if fired, _ := timer.Fired(&msg); fired {
		t.Fatal("stopped timer fired")
	}
}
