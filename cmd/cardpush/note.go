package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"carousel/cardos/frag"

	"gopkg.in/yaml.v3"
)

var errFrameTooLarge = errors.New("frame exceeds 65535 bytes")

// noteFile is the YAML form of one notification. Image paths are relative
// to the note file.
type noteFile struct {
	ID      int32  `yaml:"id"`
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Actions string `yaml:"actions,omitempty"`
	Image   string `yaml:"image,omitempty"`
	Icon    string `yaml:"icon,omitempty"`
}

func loadNote(path string, g frag.Geometry) (frag.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frag.Note{}, err
	}
	var nf noteFile
	if err := yaml.Unmarshal(data, &nf); err != nil {
		return frag.Note{}, fmt.Errorf("%s: %w", path, err)
	}

	n := frag.Note{ID: nf.ID, Title: nf.Title, Body: nf.Body, Actions: nf.Actions}
	dir := filepath.Dir(path)
	if nf.Image != "" {
		if n.Image, err = frag.LoadImage(resolve(dir, nf.Image), g.BackgroundWidth, g.BackgroundHeight); err != nil {
			return frag.Note{}, fmt.Errorf("image: %w", err)
		}
	}
	if nf.Icon != "" {
		if n.Icon, err = frag.LoadImage(resolve(dir, nf.Icon), g.IconWidth, g.IconHeight); err != nil {
			return frag.Note{}, fmt.Errorf("icon: %w", err)
		}
	}
	return n, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// encodeNote returns the link frames of the note at path, in send order.
func encodeNote(path string, g frag.Geometry) ([][]byte, error) {
	n, err := loadNote(path, g)
	if err != nil {
		return nil, err
	}
	frags, err := frag.Fragments(n, g)
	if err != nil {
		return nil, err
	}
	return frag.Encode(frags)
}

// writeFrames writes each frame with a little-endian u16 length prefix.
func writeFrames(w io.Writer, frames [][]byte) error {
	var hdr [2]byte
	for _, f := range frames {
		if len(f) > 0xFFFF {
			return errFrameTooLarge
		}
		binary.LittleEndian.PutUint16(hdr[:], uint16(len(f)))
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := w.Write(f); err != nil {
			return err
		}
	}
	return nil
}

func readFrames(r io.Reader) ([][]byte, error) {
	var frames [][]byte
	var hdr [2]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF {
				return frames, nil
			}
			return nil, err
		}
		f := make([]byte, binary.LittleEndian.Uint16(hdr[:]))
		if _, err := io.ReadFull(r, f); err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}
