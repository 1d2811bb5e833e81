//go:build !tinygo

package hal

import "time"

// TickDuration is the wall-clock length of one host tick.
const TickDuration = time.Millisecond

// hostTime converts elapsed wall-clock time into tick sequence numbers. It is
// advanced by the window or headless loop.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 16)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step publishes the ticks elapsed since the previous call, or minTicks on
// the first call.
func (t *hostTime) step(minTicks uint64) {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		t.publish(minTicks)
		return
	}
	t.acc += now.Sub(t.last)
	t.last = now

	n := uint64(t.acc / TickDuration)
	if n == 0 {
		return
	}
	t.acc %= TickDuration
	t.publish(n)
}

// publish advances the sequence by n and sends only the latest value; the
// consumer treats ticks as a monotonic clock, not as events.
func (t *hostTime) publish(n uint64) {
	t.seq += n
	for {
		select {
		case t.ch <- t.seq:
			return
		default:
		}
		select {
		case <-t.ch:
		default:
		}
	}
}
