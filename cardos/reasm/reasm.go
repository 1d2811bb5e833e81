// Package reasm applies inbound card fragments to the card cache.
//
// It is the only place inbound link data is validated. Every check runs
// before the cache is touched, so a rejected fragment changes nothing.
package reasm

import (
	"errors"
	"fmt"

	"carousel/cardos/card"
	"carousel/cardos/proto"
)

var (
	ErrMalformed       = errors.New("malformed frame")
	ErrMissingField    = errors.New("missing field")
	ErrIdentifierRange = errors.New("identifier out of range")
	ErrRowRange        = errors.New("row range out of bounds")
	ErrPayloadShape    = errors.New("payload is not a whole number of rows")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// DecodeError reports a dropped fragment.
type DecodeError struct {
	Command proto.Command
	ID      int32
	Field   string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s id=%d %s: %v", e.Command, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s id=%d: %v", e.Command, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Target names the slot content a fragment changed.
type Target uint8

const (
	TargetNone Target = iota
	TargetAll
	TargetText
	TargetIcon
	TargetBackground
	TargetActions
)

// Result describes an applied fragment.
type Result struct {
	Command proto.Command
	ID      int32
	Slot    int

	// Evicted is the identifier whose content was replaced when Collided is set.
	Evicted  int32
	Collided bool

	// TextChanged means the card height may have changed.
	TextChanged bool
	Target      Target

	// Ignored is set for commands this side does not handle.
	Ignored bool
}

// Config holds the fragment layout agreed with the sender.
type Config struct {
	TotalCards           int
	MaxPayload           int
	TitleSplit           int
	BodySplit            int
	IconRowsPerFragment  int
	ImageRowsPerFragment int
}

// Reassembler writes fragments into a cache.
type Reassembler struct {
	cache *card.Cache
	cfg   Config
}

func New(cache *card.Cache, cfg Config) *Reassembler {
	return &Reassembler{cache: cache, cfg: cfg}
}

// Total is the number of cards in the current session.
func (r *Reassembler) Total() int { return r.cfg.TotalCards }

// ApplyFrame decodes a link dictionary frame and applies it.
func (r *Reassembler) ApplyFrame(frame []byte) (Result, error) {
	f, err := proto.DecodeFragment(frame)
	if err != nil {
		return Result{}, &DecodeError{Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return r.Apply(f)
}

// Apply validates f and writes it into the cache.
func (r *Reassembler) Apply(f proto.Fragment) (Result, error) {
	if !f.HasCommand {
		return Result{}, &DecodeError{ID: f.ID, Field: "command", Err: ErrMissingField}
	}
	switch f.Command {
	case proto.CmdClear, proto.CmdUpdateText, proto.CmdUpdateIcon, proto.CmdUpdateImage, proto.CmdUpdateActions:
	default:
		return Result{Command: f.Command, ID: f.ID, Ignored: true}, nil
	}

	fail := func(field string, err error) (Result, error) {
		return Result{}, &DecodeError{Command: f.Command, ID: f.ID, Field: field, Err: err}
	}

	if !f.HasID {
		return fail("identifier", ErrMissingField)
	}
	if f.ID < 0 || int(f.ID) >= r.cfg.TotalCards {
		return fail("identifier", ErrIdentifierRange)
	}
	if r.cfg.MaxPayload > 0 && len(f.Payload) > r.cfg.MaxPayload {
		return fail("payload", ErrPayloadTooLarge)
	}

	slot := r.cache.Get(f.ID)
	var (
		write  func() error
		target Target
	)
	switch f.Command {
	case proto.CmdClear:
		target = TargetAll
		write = func() error {
			r.cache.Clear(f.ID)
			return nil
		}

	case proto.CmdUpdateText:
		if !f.HasPayload {
			return fail("payload", ErrMissingField)
		}
		title, body := r.splitText(f.Payload)
		target = TargetText
		write = func() error {
			slot.Title.Set(title)
			slot.Body.Set(body)
			return nil
		}

	case proto.CmdUpdateActions:
		if !f.HasPayload {
			return fail("payload", ErrMissingField)
		}
		target = TargetActions
		write = func() error {
			slot.Actions.Set(f.Payload)
			return nil
		}

	case proto.CmdUpdateIcon, proto.CmdUpdateImage:
		bm, perFragment := slot.Icon, r.cfg.IconRowsPerFragment
		target = TargetIcon
		if f.Command == proto.CmdUpdateImage {
			bm, perFragment = slot.Background, r.cfg.ImageRowsPerFragment
			target = TargetBackground
		}
		if !f.HasPayload {
			return fail("payload", ErrMissingField)
		}
		if !f.HasLine {
			return fail("line", ErrMissingField)
		}
		rows, err := rowCount(len(f.Payload), bm.TightStride(), perFragment)
		if err != nil {
			return fail("payload", err)
		}
		start := int(f.Line)
		if start < 0 || start > bm.Height()-rows {
			return fail("line", ErrRowRange)
		}
		write = func() error {
			return bm.WriteRows(start, rows, f.Payload)
		}
	}

	res := Result{Command: f.Command, ID: f.ID, Slot: r.cache.SlotFor(f.ID), Target: target}
	if f.Command != proto.CmdClear {
		res.Evicted, res.Collided = r.cache.Claim(f.ID)
	} else if s := r.cache.Get(f.ID); s.Owned && s.ID != f.ID {
		res.Evicted, res.Collided = s.ID, true
	}
	if err := write(); err != nil {
		// WriteRows repeats the range checks above.
		return fail("payload", err)
	}
	slot.MarkDirty()
	res.TextChanged = target == TargetText || target == TargetAll
	return res, nil
}

// splitText cuts an UpdateText payload at the fixed title/body offsets. A
// payload shorter than the title field yields an empty body.
func (r *Reassembler) splitText(p []byte) (title, body []byte) {
	ts := r.cfg.TitleSplit
	if ts <= 0 || ts > len(p) {
		ts = len(p)
	}
	title = p[:ts]
	body = p[ts:]
	if r.cfg.BodySplit > 0 && len(body) > r.cfg.BodySplit {
		body = body[:r.cfg.BodySplit]
	}
	return title, body
}

// rowCount derives the number of rows carried by n payload bytes. A payload
// holding more rows than one band is rejected.
func rowCount(n, tight, perFragment int) (int, error) {
	if n == 0 || tight <= 0 || n%tight != 0 {
		return 0, ErrPayloadShape
	}
	rows := n / tight
	if perFragment > 0 && rows > perFragment {
		return 0, ErrPayloadShape
	}
	return rows, nil
}
