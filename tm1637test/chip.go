package tm1637test

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"periph.io/x/devices/v3/tm1637/segments"
)

// RAMSize is the number of digit registers of the TM1637.
const RAMSize = 6

// Chip decodes the TM1637 bus driven on its CLK and DIO pins.
type Chip struct {
	CLK *Pin
	DIO *Pin

	mu       sync.Mutex
	clk, dio gpio.Level
	cur      []byte // frame being received
	bits     int    // bits latched into acc, 8 means the ack slot is next
	acc      byte
	frames   [][]byte

	ram        [RAMSize]byte
	fixedAddr  bool
	on         bool
	brightness int
}

// NewChip returns a Chip with the display off and both lines low.
func NewChip() *Chip {
	c := &Chip{}
	c.CLK = &Pin{name: "CLK", number: 0, chip: c}
	c.DIO = &Pin{name: "DIO", number: 1, chip: c}
	return c
}

// Frames returns the frames received since the last Reset. Each frame holds
// the bytes sent between a start and a stop condition.
func (c *Chip) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	for i, f := range c.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Reset forgets the received frames. The display state is kept.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// RAM returns the digit registers.
func (c *Chip) RAM() [RAMSize]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ram
}

// On reports whether the last display control command turned the display on.
func (c *Chip) On() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.on
}

// Brightness returns the brightness of the last display control command.
func (c *Chip) Brightness() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brightness
}

// Render draws the first n digits as ASCII art. Digits of a display that is
// off are drawn blank.
func (c *Chip) Render(n int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n = max(0, min(n, RAMSize))
	segs := make([]byte, n)
	if c.on {
		copy(segs, c.ram[:n])
	}
	return segments.Render(segs)
}

// String renders 4 digits.
func (c *Chip) String() string {
	return c.Render(4)
}

// edge handles a level change on one of the lines.
func (c *Chip) edge(p *Pin, l gpio.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch p {
	case c.CLK:
		rising := !c.clk && l
		c.clk = l
		if rising {
			c.latch()
		}
	case c.DIO:
		prev := c.dio
		c.dio = l
		if !c.clk || prev == l {
			return
		}
		if l {
			c.end()
		} else {
			c.begin()
		}
	}
}

// begin handles a start condition.
func (c *Chip) begin() {
	c.cur = c.cur[:0]
	c.bits = 0
	c.acc = 0
}

// latch samples DIO on a rising CLK edge. Bits are taken even before the
// first start condition, like the chip does after power up.
func (c *Chip) latch() {
	if c.bits == 8 {
		c.cur = append(c.cur, c.acc)
		c.bits = 0
		c.acc = 0
		return
	}
	if c.dio {
		c.acc |= 1 << c.bits
	}
	c.bits++
}

// end handles a stop condition. A partially received byte is dropped.
func (c *Chip) end() {
	if len(c.cur) > 0 {
		f := append([]byte(nil), c.cur...)
		c.frames = append(c.frames, f)
		c.exec(f)
	}
	c.begin()
}

func (c *Chip) exec(f []byte) {
	switch cmd := f[0]; cmd & 0xC0 {
	case 0x40:
		c.fixedAddr = cmd&0x04 != 0
	case 0x80:
		c.on = cmd&0x08 != 0
		c.brightness = int(cmd & 0x07)
	case 0xC0:
		addr := int(cmd & 0x07)
		for _, b := range f[1:] {
			if addr < RAMSize {
				c.ram[addr] = b
			}
			if !c.fixedAddr {
				addr++
			}
		}
	}
}

// Pin is one line of a Chip. It implements gpio.PinOut.
type Pin struct {
	name   string
	number int
	chip   *Chip

	mu  sync.Mutex
	l   gpio.Level
	err error
}

// Fail makes every following Out call return err. A nil err restores normal
// operation.
func (p *Pin) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Level returns the level last driven on the pin.
func (p *Pin) Level() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.l
}

func (p *Pin) String() string {
	return fmt.Sprintf("tm1637test.Pin{%s}", p.name)
}

func (p *Pin) Halt() error {
	return nil
}

func (p *Pin) Name() string {
	return p.name
}

func (p *Pin) Number() int {
	return p.number
}

func (p *Pin) Function() string {
	return "Out"
}

// Out drives the line and feeds the transition to the chip.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	if p.err != nil {
		err := p.err
		p.mu.Unlock()
		return err
	}
	p.l = l
	p.mu.Unlock()
	p.chip.edge(p, l)
	return nil
}

func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("tm1637test: PWM not supported")
}

var _ gpio.PinOut = &Pin{}
