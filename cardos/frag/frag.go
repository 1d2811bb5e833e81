// Package frag turns a notification into the link fragments that rebuild it
// on the device: Clear, UpdateText, UpdateIcon bands, UpdateImage bands and
// an optional UpdateActions.
package frag

import (
	"errors"
	"fmt"
	"image"

	"carousel/cardos/card"
	"carousel/cardos/proto"
)

var ErrBandTooLarge = errors.New("frag: one row does not fit in a payload")

// Geometry is the fragment layout shared with the device.
type Geometry struct {
	BackgroundWidth  int
	BackgroundHeight int
	IconWidth        int
	IconHeight       int

	TitleSplit int
	BodySplit  int

	IconRowsPerFragment  int
	ImageRowsPerFragment int
	MaxPayload           int
}

// Note is one notification card.
type Note struct {
	ID      int32
	Title   string
	Body    string
	Actions string

	// Image and Icon are optional; nil leaves the device placeholder.
	Image image.Image
	Icon  image.Image
}

// Fragments returns the fragments for n in send order.
func Fragments(n Note, g Geometry) ([]proto.Fragment, error) {
	out := []proto.Fragment{
		proto.NewFragment(proto.CmdClear, n.ID),
		proto.NewFragment(proto.CmdUpdateText, n.ID).WithPayload(TextPayload(n.Title, n.Body, g.TitleSplit, g.BodySplit)),
	}
	if n.Icon != nil {
		bands, err := Bands(proto.CmdUpdateIcon, n.ID, Pack(n.Icon, g.IconWidth, g.IconHeight), card.TightStride(g.IconWidth), g.IconRowsPerFragment, g.MaxPayload)
		if err != nil {
			return nil, fmt.Errorf("icon: %w", err)
		}
		out = append(out, bands...)
	}
	if n.Image != nil {
		bands, err := Bands(proto.CmdUpdateImage, n.ID, Pack(n.Image, g.BackgroundWidth, g.BackgroundHeight), card.TightStride(g.BackgroundWidth), g.ImageRowsPerFragment, g.MaxPayload)
		if err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
		out = append(out, bands...)
	}
	if n.Actions != "" {
		out = append(out, proto.NewFragment(proto.CmdUpdateActions, n.ID).WithPayload([]byte(n.Actions)))
	}
	return out, nil
}

// Encode encodes each fragment as a link dictionary frame.
func Encode(frags []proto.Fragment) ([][]byte, error) {
	frames := make([][]byte, 0, len(frags))
	for _, f := range frags {
		b, err := f.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s id=%d: %w", f.Command, f.ID, err)
		}
		frames = append(frames, b)
	}
	return frames, nil
}

// TextPayload lays out the title in a NUL-padded field of titleSplit bytes
// followed by at most bodySplit bytes of body.
func TextPayload(title, body string, titleSplit, bodySplit int) []byte {
	t := []byte(title)
	if len(t) > titleSplit {
		t = t[:titleSplit]
	}
	b := []byte(body)
	if bodySplit > 0 && len(b) > bodySplit {
		b = b[:bodySplit]
	}
	p := make([]byte, titleSplit, titleSplit+len(b))
	copy(p, t)
	return append(p, b...)
}

// Bands cuts packed rows into fragments of at most rowsPer rows, fewer when a
// band would exceed maxPayload.
func Bands(cmd proto.Command, id int32, packed []byte, tight, rowsPer, maxPayload int) ([]proto.Fragment, error) {
	if tight <= 0 || len(packed)%tight != 0 {
		return nil, fmt.Errorf("frag: %d bytes is not a whole number of %d-byte rows", len(packed), tight)
	}
	if rowsPer <= 0 {
		rowsPer = 1
	}
	if maxPayload > 0 && rowsPer*tight > maxPayload {
		rowsPer = maxPayload / tight
		if rowsPer == 0 {
			return nil, ErrBandTooLarge
		}
	}
	rows := len(packed) / tight
	var out []proto.Fragment
	for line := 0; line < rows; line += rowsPer {
		n := min(rowsPer, rows-line)
		band := packed[line*tight : (line+n)*tight]
		out = append(out, proto.NewFragment(cmd, id).WithLine(int32(line)).WithPayload(band))
	}
	return out, nil
}
