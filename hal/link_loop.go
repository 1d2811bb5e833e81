package hal

import "sync"

// LoopLink is an in-process Link. Frames injected with Inject arrive on
// Inbound; frames passed to Send are kept for Sent.
type LoopLink struct {
	max int
	in  chan []byte

	mu   sync.Mutex
	sent [][]byte
}

// NewLoopLink returns a loop link accepting frames up to maxFrame bytes.
func NewLoopLink(maxFrame int) *LoopLink {
	return &LoopLink{max: maxFrame, in: make(chan []byte, 64)}
}

func (l *LoopLink) Inbound() <-chan []byte { return l.in }

// Inject queues a copy of frame as if it arrived from the host.
func (l *LoopLink) Inject(frame []byte) error {
	if l.max > 0 && len(frame) > l.max {
		return ErrFrameTooLarge
	}
	cp := append([]byte(nil), frame...)
	select {
	case l.in <- cp:
		return nil
	default:
		return ErrLinkBusy
	}
}

func (l *LoopLink) Send(frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, append([]byte(nil), frame...))
	return nil
}

// Sent returns and clears the frames sent so far.
func (l *LoopLink) Sent() [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.sent
	l.sent = nil
	return out
}
