package render

import (
	"strings"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"
)

// Fonts are the faces used by each text element.
type Fonts struct {
	Title tinyfont.Fonter
	Body  tinyfont.Fonter
	Clock tinyfont.Fonter
}

// DefaultFonts returns the built-in faces.
func DefaultFonts() Fonts {
	return Fonts{
		Title: &proggy.TinySZ8pt7b,
		Body:  &freesans.Bold9pt7b,
		Clock: &freesans.Bold18pt7b,
	}
}

func textWidth(f tinyfont.Fonter, s string) int {
	_, w := tinyfont.LineWidth(f, s)
	return int(w)
}

// Wrap breaks s into lines no wider than width pixels. Lines break at spaces
// and newlines; a word wider than the line is split between runes.
func Wrap(f tinyfont.Fonter, s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			if para != "" || len(lines) > 0 {
				lines = append(lines, "")
			}
			continue
		}
		line := ""
		for _, w := range words {
			next := w
			if line != "" {
				next = line + " " + w
			}
			if textWidth(f, next) <= width {
				line = next
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = w
			for textWidth(f, line) > width {
				head, rest := splitRunes(f, line, width)
				lines = append(lines, head)
				line = rest
			}
		}
		lines = append(lines, line)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitRunes returns the longest prefix of s that fits width, at least one rune.
func splitRunes(f tinyfont.Fonter, s string, width int) (head, rest string) {
	cut := 0
	for i := range s {
		if i > 0 && textWidth(f, s[:i]) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		for i := range s {
			if i > 0 {
				return s[:i], s[i:]
			}
		}
		return s, ""
	}
	if textWidth(f, s) <= width {
		return s, ""
	}
	return s[:cut], s[cut:]
}

// Measurer measures word-wrapped text height for card layout.
type Measurer struct {
	Font tinyfont.Fonter
}

// TextHeight is the number of wrapped lines times the font line height.
func (m Measurer) TextHeight(text string, width int) int {
	if m.Font == nil {
		return 0
	}
	return len(Wrap(m.Font, text, width)) * int(m.Font.GetYAdvance())
}
