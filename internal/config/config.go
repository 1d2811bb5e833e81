package config

import (
	"errors"
	"fmt"

	"carousel/cardos/card"
	"carousel/cardos/frag"
	"carousel/cardos/kernel"
	"carousel/cardos/nav"
	"carousel/cardos/proto"
	"carousel/cardos/reasm"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalid       = errors.New("invalid config")
)

type Config struct {
	Preset string `yaml:"preset"`

	Screen     Size `yaml:"screen"`
	Background Size `yaml:"background"`
	Icon       Size `yaml:"icon"`

	RowAlign      int `yaml:"row_align"`       // bytes; image rows are padded to a multiple
	IconRowStride int `yaml:"icon_row_stride"` // bytes; 0 derives it from icon width and row_align

	CacheSlots int `yaml:"cache_slots"`
	TitleSize  int `yaml:"title_size"` // buffer bytes including the terminating NUL
	BodySize   int `yaml:"body_size"`

	TextSplit TextSplit `yaml:"text_split"`

	IconRowsPerFragment  int `yaml:"icon_rows_per_fragment"`
	ImageRowsPerFragment int `yaml:"image_rows_per_fragment"`
	MaxPayload           int `yaml:"max_payload"`
	TotalCards           int `yaml:"total_cards"`

	Card         CardSize `yaml:"card"`
	ExpandOffset int      `yaml:"expand_offset"`

	LongPressMS  int `yaml:"long_press_ms"`
	TransitionMS int `yaml:"transition_ms"`

	IconPlaceholder string `yaml:"icon_placeholder"` // blank or checker

	Link     string `yaml:"link"` // loop, http or ble
	HTTPAddr string `yaml:"http_addr"`
	BLEName  string `yaml:"ble_name"`
}

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type TextSplit struct {
	Title int `yaml:"title"`
	Body  int `yaml:"body"`
}

type CardSize struct {
	MinHeight int `yaml:"min_height"`
	MaxHeight int `yaml:"max_height"`
	Padding   int `yaml:"padding"`
}

// Preset returns a built-in configuration: "classic" (four cached cards on a
// 144 pixel background) or "wear" (five cached cards on a full screen one).
func Preset(name string) (Config, error) {
	switch name {
	case "", "classic":
		return classic(), nil
	case "wear":
		c := classic()
		c.Preset = "wear"
		c.Background = Size{Width: 144, Height: 168}
		c.CacheSlots = 5
		c.TitleSize = 21
		c.BodySize = 41
		c.TextSplit = TextSplit{Title: 20, Body: 40}
		c.ImageRowsPerFragment = 1
		c.TotalCards = 4
		return c, nil
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

func classic() Config {
	return Config{
		Preset:               "classic",
		Screen:               Size{Width: 144, Height: 168},
		Background:           Size{Width: 144, Height: 144},
		Icon:                 Size{Width: 48, Height: 48},
		RowAlign:             4,
		IconRowStride:        8,
		CacheSlots:           4,
		TitleSize:            30,
		BodySize:             80,
		TextSplit:            TextSplit{Title: 30, Body: 80},
		IconRowsPerFragment:  16,
		ImageRowsPerFragment: 4,
		MaxPayload:           kernel.MaxMessageBytes - proto.FragmentOverhead,
		TotalCards:           22,
		Card:                 CardSize{MinHeight: 54, MaxHeight: 102, Padding: 4},
		ExpandOffset:         95,
		LongPressMS:          400,
		TransitionMS:         300,
		IconPlaceholder:      "blank",
		Link:                 "loop",
		HTTPAddr:             ":8080",
		BLEName:              "Carousel",
	}
}

// Validate reports the first inconsistency in c.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return bad("screen %dx%d", c.Screen.Width, c.Screen.Height)
	case c.Background.Width <= 0 || c.Background.Height <= 0:
		return bad("background %dx%d", c.Background.Width, c.Background.Height)
	case c.Icon.Width <= 0 || c.Icon.Height <= 0:
		return bad("icon %dx%d", c.Icon.Width, c.Icon.Height)
	case c.RowAlign <= 0:
		return bad("row_align %d", c.RowAlign)
	case c.IconRowStride != 0 && c.IconRowStride < card.TightStride(c.Icon.Width):
		return bad("icon_row_stride %d narrower than %d pixels", c.IconRowStride, c.Icon.Width)
	case c.CacheSlots <= 0:
		return bad("cache_slots %d", c.CacheSlots)
	case c.TitleSize <= 1 || c.BodySize <= 1:
		return bad("title_size %d body_size %d", c.TitleSize, c.BodySize)
	case c.TextSplit.Title <= 0 || c.TextSplit.Body < 0:
		return bad("text_split %d/%d", c.TextSplit.Title, c.TextSplit.Body)
	case c.MaxPayload <= 0:
		return bad("max_payload %d", c.MaxPayload)
	case c.MaxPayload+proto.FragmentOverhead > kernel.MaxMessageBytes:
		return bad("max_payload %d plus %d bytes of framing exceeds the %d byte message ceiling", c.MaxPayload, proto.FragmentOverhead, kernel.MaxMessageBytes)
	case c.TextSplit.Title+c.TextSplit.Body > c.MaxPayload:
		return bad("text_split %d/%d larger than max_payload %d", c.TextSplit.Title, c.TextSplit.Body, c.MaxPayload)
	case c.IconRowsPerFragment <= 0 || c.ImageRowsPerFragment <= 0:
		return bad("rows per fragment %d/%d", c.IconRowsPerFragment, c.ImageRowsPerFragment)
	case c.IconRowsPerFragment*card.TightStride(c.Icon.Width) > c.MaxPayload:
		return bad("icon band of %d rows larger than max_payload", c.IconRowsPerFragment)
	case c.ImageRowsPerFragment*card.TightStride(c.Background.Width) > c.MaxPayload:
		return bad("image band of %d rows larger than max_payload", c.ImageRowsPerFragment)
	case c.TotalCards < 1:
		return bad("total_cards %d", c.TotalCards)
	case c.Card.MinHeight <= 0 || c.Card.MinHeight > c.Card.MaxHeight:
		return bad("card height %d..%d", c.Card.MinHeight, c.Card.MaxHeight)
	case c.Card.MaxHeight > c.Screen.Height:
		return bad("card max_height %d taller than the screen", c.Card.MaxHeight)
	case c.ExpandOffset <= 0 || c.ExpandOffset >= c.Screen.Height:
		return bad("expand_offset %d", c.ExpandOffset)
	case c.LongPressMS <= 0 || c.TransitionMS <= 0:
		return bad("long_press_ms %d transition_ms %d", c.LongPressMS, c.TransitionMS)
	}
	if _, err := c.iconPattern(); err != nil {
		return err
	}
	switch c.Link {
	case "loop", "http", "ble":
	default:
		return bad("link %q", c.Link)
	}
	return nil
}

func (c *Config) iconPattern() (card.Pattern, error) {
	switch c.IconPlaceholder {
	case "", "blank":
		return card.PatternBlank, nil
	case "checker":
		return card.PatternChecker, nil
	default:
		return 0, fmt.Errorf("%w: icon_placeholder %q", ErrInvalid, c.IconPlaceholder)
	}
}

// CardGeometry returns the cache layout.
func (c *Config) CardGeometry() card.Geometry {
	pattern, _ := c.iconPattern()
	return card.Geometry{
		Slots:             c.CacheSlots,
		BackgroundWidth:   c.Background.Width,
		BackgroundHeight:  c.Background.Height,
		BackgroundPattern: card.PatternChecker,
		IconWidth:         c.Icon.Width,
		IconHeight:        c.Icon.Height,
		IconStride:        c.IconRowStride,
		IconPattern:       pattern,
		RowAlign:          c.RowAlign,
		TitleSize:         c.TitleSize,
		BodySize:          c.BodySize,
		ActionsSize:       c.BodySize,
	}
}

// ReasmConfig returns the fragment validation limits.
func (c *Config) ReasmConfig() reasm.Config {
	return reasm.Config{
		TotalCards:           c.TotalCards,
		MaxPayload:           c.MaxPayload,
		TitleSplit:           c.TextSplit.Title,
		BodySplit:            c.TextSplit.Body,
		IconRowsPerFragment:  c.IconRowsPerFragment,
		ImageRowsPerFragment: c.ImageRowsPerFragment,
	}
}

// NavGeometry returns the navigation layout.
func (c *Config) NavGeometry() nav.Geometry {
	return nav.Geometry{
		ScreenWidth:      c.Screen.Width,
		ScreenHeight:     c.Screen.Height,
		BackgroundHeight: c.Background.Height,
		MinCardHeight:    c.Card.MinHeight,
		MaxCardHeight:    c.Card.MaxHeight,
		CardPadding:      c.Card.Padding,
		ExpandOffset:     c.ExpandOffset,
		WrapWidth:        c.Screen.Width - 2,
	}
}

// FragGeometry returns the sender side of the fragment layout.
func (c *Config) FragGeometry() frag.Geometry {
	return frag.Geometry{
		BackgroundWidth:      c.Background.Width,
		BackgroundHeight:     c.Background.Height,
		IconWidth:            c.Icon.Width,
		IconHeight:           c.Icon.Height,
		TitleSplit:           c.TextSplit.Title,
		BodySplit:            c.TextSplit.Body,
		IconRowsPerFragment:  c.IconRowsPerFragment,
		ImageRowsPerFragment: c.ImageRowsPerFragment,
		MaxPayload:           c.MaxPayload,
	}
}
