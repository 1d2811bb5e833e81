package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// event mirrors one entry of GET /events.
type event struct {
	Mode  int32  `json:"mode"`
	Index *int32 `json:"index,omitempty"`
}

type pusher struct {
	base    string
	timeout time.Duration
}

func newPusher(base string, timeout time.Duration) *pusher {
	return &pusher{base: strings.TrimRight(base, "/"), timeout: timeout}
}

// send posts frames to /link one at a time and stops at the first rejection.
func (p *pusher) send(frames [][]byte) error {
	for i, f := range frames {
		a := fiber.Post(p.base + "/link")
		a.Timeout(p.timeout)
		a.ContentType("application/octet-stream")
		a.Body(f)
		code, body, errs := a.Bytes()
		if len(errs) > 0 {
			return fmt.Errorf("frame %d: %w", i, errs[0])
		}
		if code != fiber.StatusAccepted {
			return fmt.Errorf("frame %d: status %d: %s", i, code, strings.TrimSpace(string(body)))
		}
	}
	return nil
}

func (p *pusher) events() ([]event, error) {
	a := fiber.Get(p.base + "/events")
	a.Timeout(p.timeout)
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("events: status %d", code)
	}
	var evs []event
	if err := json.Unmarshal(body, &evs); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	return evs, nil
}
