//go:build !tinygo

package hal

import (
	"bytes"
	"image/png"
	"strconv"
	"sync"

	"carousel/cardos/proto"

	"github.com/gofiber/fiber/v2"
)

const maxPendingEvents = 64

// httpEvent is the JSON form of one outbound event.
type httpEvent struct {
	Mode  int32  `json:"mode"`
	Index *int32 `json:"index,omitempty"`
}

// httpLink serves the link over HTTP:
//
//	POST /link        one dictionary frame per request body
//	GET  /events      pending outbound events as JSON, oldest first
//	GET  /frame.png   the last presented frame
type httpLink struct {
	app *fiber.App
	max int
	in  chan []byte
	fb  *hostFramebuffer
	log Logger

	mu     sync.Mutex
	events []httpEvent
}

func newHTTPLink(addr string, maxFrame int, fb *hostFramebuffer, log Logger) (*httpLink, error) {
	if addr == "" {
		addr = ":8080"
	}
	l := newHTTPHandler(maxFrame, fb, log)
	go func() {
		if err := l.app.Listen(addr); err != nil {
			log.WriteLineString("http link: " + err.Error())
		}
	}()
	log.WriteLineString("http link: listening on " + addr)
	return l, nil
}

// newHTTPHandler builds the routes without listening.
func newHTTPHandler(maxFrame int, fb *hostFramebuffer, log Logger) *httpLink {
	l := &httpLink{
		max: maxFrame,
		in:  make(chan []byte, 64),
		fb:  fb,
		log: log,
	}
	l.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             maxFrame * 4,
	})
	l.app.Post("/link", l.postFrame)
	l.app.Get("/events", l.getEvents)
	l.app.Get("/frame.png", l.getFrame)
	return l
}

func (l *httpLink) Inbound() <-chan []byte { return l.in }

// Send queues an outbound event for GET /events. Frames that do not decode
// as events are dropped.
func (l *httpLink) Send(frame []byte) error {
	mode, index, hasIndex, err := proto.DecodeEventPayload(frame)
	if err != nil {
		return err
	}
	ev := httpEvent{Mode: int32(mode)}
	if hasIndex {
		ev.Index = &index
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) >= maxPendingEvents {
		l.events = l.events[1:]
	}
	l.events = append(l.events, ev)
	return nil
}

func (l *httpLink) postFrame(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).SendString("Empty frame")
	}
	if len(body) > l.max {
		return c.Status(fiber.StatusBadRequest).SendString("Frame too large")
	}
	// fasthttp reuses the body buffer after the handler returns.
	frame := append([]byte(nil), body...)
	select {
	case l.in <- frame:
		return c.SendStatus(fiber.StatusAccepted)
	default:
		return c.Status(fiber.StatusServiceUnavailable).SendString("Link busy")
	}
}

func (l *httpLink) getEvents(c *fiber.Ctx) error {
	l.mu.Lock()
	events := l.events
	l.events = nil
	l.mu.Unlock()
	if events == nil {
		events = []httpEvent{}
	}
	return c.JSON(events)
}

func (l *httpLink) getFrame(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, MonoImage(l.fb.presented())); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}
	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}
