package conn

import (
	"bytes"
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// wire models both bus lines with a peripheral that decodes every frame it sees.
type wire struct {
	scl, sda *wirePin
	ack      bool

	// peripheral state
	holding bool // peripheral pulls SDA low
	ackSlot bool
	nbits   int
	cur     byte
	frame   []byte
	inFrame bool
	frames  [][]byte
}

type wirePin struct {
	*gpiotest.Pin
	w   *wire
	low bool
}

func newWire(ack bool) *wire {
	w := &wire{ack: ack}
	w.scl = &wirePin{Pin: &gpiotest.Pin{N: "SCL", Num: 3}, w: w}
	w.sda = &wirePin{Pin: &gpiotest.Pin{N: "SDA", Num: 2}, w: w}
	return w
}

func (w *wire) levels() (scl, sda bool) {
	return !w.scl.low, !w.sda.low && !w.holding
}

func (w *wire) update(oldSCL, oldSDA bool) {
	scl, sda := w.levels()
	switch {
	case oldSCL && scl && oldSDA && !sda:
		w.inFrame, w.frame, w.nbits, w.ackSlot = true, nil, 0, false
	case oldSCL && scl && !oldSDA && sda:
		if w.inFrame {
			w.frames = append(w.frames, w.frame)
		}
		w.inFrame, w.nbits, w.ackSlot = false, 0, false
	case !oldSCL && scl && w.inFrame && !w.ackSlot && w.nbits < 8:
		w.cur <<= 1
		if sda {
			w.cur |= 1
		}
		w.nbits++
	case oldSCL && !scl && w.inFrame:
		if w.ackSlot {
			w.ackSlot, w.holding, w.nbits = false, false, 0
		} else if w.nbits == 8 {
			w.frame = append(w.frame, w.cur)
			w.ackSlot, w.holding = true, w.ack
		}
	}
}

func (p *wirePin) Out(l gpio.Level) error {
	scl, sda := p.w.levels()
	p.low = l == gpio.Low
	p.w.update(scl, sda)
	return nil
}

func (p *wirePin) In(pull gpio.Pull, edge gpio.Edge) error {
	scl, sda := p.w.levels()
	p.low = false
	p.w.update(scl, sda)
	return nil
}

func (p *wirePin) Read() gpio.Level {
	scl, sda := p.w.levels()
	if p == p.w.scl {
		return gpio.Level(scl)
	}
	return gpio.Level(sda)
}

func TestSoftI2CWrite(t *testing.T) {
	w := newWire(true)
	b, err := NewSoftI2C(w.scl, w.sda, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b.SCL() != gpio.PinIO(w.scl) || b.SDA() != gpio.PinIO(w.sda) {
		t.Fatal("expected pins to be reported as given")
	}

	if err = b.Tx(0x3c, []byte{0x80, 0xaf}, nil); err != nil {
		t.Fatal(err)
	}
	if err = b.Tx(0x3c, []byte{0x40, 0x5a}, nil); err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		{0x78, 0x80, 0xaf},
		{0x78, 0x40, 0x5a},
	}
	if len(w.frames) != len(want) {
		t.Fatalf("expected %d frames, got %d: %x", len(want), len(w.frames), w.frames)
	}
	for i := range want {
		if !bytes.Equal(w.frames[i], want[i]) {
			t.Errorf("frame %d: expected %x, got %x", i, want[i], w.frames[i])
		}
	}
	if scl, sda := w.levels(); !scl || !sda {
		t.Error("expected the bus to be idle after a transaction")
	}
}

func TestSoftI2CNack(t *testing.T) {
	w := newWire(false)
	b, err := NewSoftI2C(w.scl, w.sda, 0)
	if err != nil {
		t.Fatal(err)
	}
	err = b.Tx(0x3c, []byte{0x80, 0xae}, nil)
	if !errors.Is(err, ErrNack) {
		t.Fatalf("expected ErrNack, got %v", err)
	}
	if len(w.frames) != 1 || !bytes.Equal(w.frames[0], []byte{0x78}) {
		t.Fatalf("expected the frame to stop after the address byte, got %x", w.frames)
	}
	if scl, sda := w.levels(); !scl || !sda {
		t.Error("expected the bus to be released after a failed transaction")
	}
}

func TestSoftI2CInvalid(t *testing.T) {
	w := newWire(true)
	if _, err := NewSoftI2C(nil, w.sda, 0); !errors.Is(err, ErrPin) {
		t.Errorf("expected ErrPin for a nil SCL, got %v", err)
	}
	if _, err := NewSoftI2C(w.scl, gpio.INVALID, 0); !errors.Is(err, ErrPin) {
		t.Errorf("expected ErrPin for an invalid SDA, got %v", err)
	}

	b, err := NewSoftI2C(w.scl, w.sda, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err = b.Tx(0x80, []byte{0}, nil); !errors.Is(err, ErrAddr) {
		t.Errorf("expected ErrAddr, got %v", err)
	}
	if err = b.Tx(0x3c, nil, make([]byte, 1)); !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for a read, got %v", err)
	}
	if err = b.SetSpeed(-1); err == nil {
		t.Error("expected an error for a negative frequency")
	}
	if len(w.frames) != 0 {
		t.Errorf("expected no traffic, got %x", w.frames)
	}
}

func TestOpenSoftI2CUnknownPin(t *testing.T) {
	if _, err := OpenSoftI2C("no-such-sda", "no-such-scl", 0x3c, 0); !errors.Is(err, ErrPin) {
		t.Fatalf("expected ErrPin, got %v", err)
	}
}
