// Package anim runs frame tweens on the owner's tick.
package anim

import "carousel/cardos/nav"

const fixedOne = 1 << 16

// Engine interpolates scheduled tweens. It is driven by Step from the task
// that owns the frames and is not safe for concurrent use.
type Engine struct {
	duration uint64
	now      uint64
	jobs     []*job
}

// New returns an engine whose transitions last duration ticks.
func New(duration uint64) *Engine {
	return &Engine{duration: duration}
}

type job struct {
	e      *Engine
	target nav.FrameSetter
	tweens []nav.Tween
	done   func()
	start  uint64
	dead   bool
}

// Cancel removes the job. Frames keep their last interpolated value.
func (j *job) Cancel() {
	if j.dead {
		return
	}
	j.dead = true
	j.e.remove(j)
}

// Schedule applies every From frame now and starts interpolating on the next Step.
func (e *Engine) Schedule(target nav.FrameSetter, tweens []nav.Tween, done func()) nav.Handle {
	j := &job{e: e, target: target, tweens: tweens, done: done, start: e.now}
	for _, t := range tweens {
		target.SetFrame(t.Surface, t.From)
	}
	e.jobs = append(e.jobs, j)
	return j
}

// Active is the number of running jobs.
func (e *Engine) Active() int { return len(e.jobs) }

// Step advances every job to tick now. Finished jobs get their final frames
// and their done callback, in scheduling order.
func (e *Engine) Step(now uint64) {
	if now > e.now {
		e.now = now
	}
	if len(e.jobs) == 0 {
		return
	}
	jobs := append([]*job(nil), e.jobs...)
	for _, j := range jobs {
		if j.dead {
			continue
		}
		elapsed := e.now - j.start
		if elapsed >= e.duration {
			for _, t := range j.tweens {
				j.target.SetFrame(t.Surface, t.To)
			}
			j.dead = true
			e.remove(j)
			if j.done != nil {
				j.done()
			}
			continue
		}
		p := int64(elapsed * fixedOne / e.duration)
		for _, t := range j.tweens {
			j.target.SetFrame(t.Surface, lerpRect(t.From, t.To, curve(t.Curve, p)))
		}
	}
}

func (e *Engine) remove(j *job) {
	for i, x := range e.jobs {
		if x == j {
			e.jobs = append(e.jobs[:i], e.jobs[i+1:]...)
			return
		}
	}
}

// curve maps linear progress p in [0, fixedOne] through c.
func curve(c nav.Curve, p int64) int64 {
	switch c {
	case nav.EaseOut:
		inv := fixedOne - p
		return fixedOne - inv*inv/fixedOne
	default:
		return p
	}
}

func lerp(a, b int, p int64) int {
	return a + int(int64(b-a)*p/fixedOne)
}

func lerpRect(a, b nav.Rect, p int64) nav.Rect {
	return nav.Rect{
		X: lerp(a.X, b.X, p),
		Y: lerp(a.Y, b.Y, p),
		W: lerp(a.W, b.W, p),
		H: lerp(a.H, b.H, p),
	}
}
