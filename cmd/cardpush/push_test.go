package main

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type fakeDevice struct {
	mu     sync.Mutex
	frames [][]byte
	reject int
}

func startDevice(t *testing.T, d *fakeDevice) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/link", func(c *fiber.Ctx) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.reject > 0 && len(d.frames) == d.reject {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Link busy")
		}
		d.frames = append(d.frames, append([]byte(nil), c.Body()...))
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/events", func(c *fiber.Ctx) error {
		return c.SendString(`[{"mode":0},{"mode":2,"index":1}]`)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestPusherSendsFramesInOrder(t *testing.T) {
	d := &fakeDevice{}
	p := newPusher(startDevice(t, d)+"/", time.Second)

	if err := p.send([][]byte{{1}, {2, 2}, {3, 3, 3}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) != 3 || len(d.frames[2]) != 3 || d.frames[1][0] != 2 {
		t.Fatalf("unexpected frames %v", d.frames)
	}
}

func TestPusherStopsOnRejection(t *testing.T) {
	d := &fakeDevice{reject: 1}
	p := newPusher(startDevice(t, d), time.Second)

	if err := p.send([][]byte{{1}, {2}, {3}}); err == nil {
		t.Fatal("expected an error when the link is busy")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) != 1 {
		t.Fatalf("expected sending to stop after the rejection, got %d frames", len(d.frames))
	}
}

func TestPusherEvents(t *testing.T) {
	p := newPusher(startDevice(t, &fakeDevice{}), time.Second)
	evs, err := p.events()
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(evs) != 2 || evs[0].Index != nil || evs[1].Index == nil || *evs[1].Index != 1 {
		t.Fatalf("unexpected events %+v", evs)
	}
}
