package app

import (
	"strings"
	"sync"
	"testing"
	"time"

	"carousel/cardos/kernel"
	"carousel/hal"
)

type lineLog struct {
	mu    sync.Mutex
	lines []string
	got   chan struct{}
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
	select {
	case l.got <- struct{}{}:
	default:
	}
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

type logOnlyHAL struct{ log *lineLog }

func (h logOnlyHAL) Logger() hal.Logger   { return h.log }
func (h logOnlyHAL) Display() hal.Display { return nil }
func (h logOnlyHAL) Input() hal.Input     { return nil }
func (h logOnlyHAL) Time() hal.Time       { return nil }
func (h logOnlyHAL) Link() hal.Link       { return nil }

type boomTask struct{}

func (boomTask) Run(*kernel.Context) { panic("boom") }

func TestTicksForRoundsUp(t *testing.T) {
	if got := ticksFor(400); got != 400 {
		t.Fatalf("expected 400 ticks, got %d", got)
	}
	if got := ticksFor(0); got != 1 {
		t.Fatalf("expected at least one tick, got %d", got)
	}
}

func TestPanicHandlerLogs(t *testing.T) {
	log := &lineLog{got: make(chan struct{}, 1)}
	k := kernel.New()
	installPanicHandler(k, logOnlyHAL{log: log})
	k.AddTask(boomTask{})

	select {
	case <-log.got:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the panic report")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if !strings.Contains(log.lines[0], "panic=boom") {
		t.Fatalf("unexpected first line %q", log.lines[0])
	}
}
