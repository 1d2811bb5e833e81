//go:build linux && !tinygo

package hal

import (
	"sync"

	"tinygo.org/x/bluetooth"
)

// bleChunk is the largest notification sent at once; it fits the default ATT MTU.
const bleChunk = 20

// bleLink exposes the link as a Nordic UART GATT service. Frames travel in
// both directions as a u16 little-endian length followed by the frame bytes,
// split across as many writes or notifications as needed.
type bleLink struct {
	in  chan []byte
	log Logger
	tx  bluetooth.Characteristic

	rx frameReader

	mu sync.Mutex
}

func newBLELink(name string, maxFrame int, log Logger) (*bleLink, error) {
	if name == "" {
		name = "Carousel"
	}
	l := &bleLink{
		in:  make(chan []byte, 64),
		log: log,
		rx:  frameReader{max: maxFrame},
	}

	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, err
	}

	var rxChar bluetooth.Characteristic
	err := adapter.AddService(&bluetooth.Service{
		UUID: bluetooth.ServiceUUIDNordicUART,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &rxChar,
				UUID:   bluetooth.CharacteristicUUIDUARTRX,
				Flags:  bluetooth.CharacteristicWritePermission | bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: func(_ bluetooth.Connection, _ int, value []byte) {
					l.receive(value)
				},
			},
			{
				Handle: &l.tx,
				UUID:   bluetooth.CharacteristicUUIDUARTTX,
				Flags:  bluetooth.CharacteristicNotifyPermission | bluetooth.CharacteristicReadPermission,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	adv := adapter.DefaultAdvertisement()
	if err := adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    name,
		ServiceUUIDs: []bluetooth.UUID{bluetooth.ServiceUUIDNordicUART},
	}); err != nil {
		return nil, err
	}
	if err := adv.Start(); err != nil {
		return nil, err
	}
	log.WriteLineString("ble link: advertising as " + name)
	return l, nil
}

func (l *bleLink) Inbound() <-chan []byte { return l.in }

func (l *bleLink) receive(value []byte) {
	l.rx.feed(value, func(frame []byte) {
		select {
		case l.in <- frame:
		default:
			l.log.WriteLineString("ble link: inbound queue full, frame dropped")
		}
	}, func(n int) {
		l.log.WriteLineString("ble link: oversized frame dropped")
	})
}

func (l *bleLink) Send(frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, chunk := range splitFrame(frame, bleChunk) {
		if _, err := l.tx.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}
