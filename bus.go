package tm1637

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// bus bit-bangs the TM1637 two-wire protocol. It looks like I²C on the wire
// but has no device address, sends bytes LSB first and never reads back.
//
// The first pin error is kept and every later transition is skipped until the
// next frame starts.
type bus struct {
	clk   gpio.PinOut
	dio   gpio.PinOut
	delay time.Duration
	clock clockwork.Clock
	err   error
}

func (b *bus) wait() {
	b.clock.Sleep(b.delay)
}

func (b *bus) setCLK(l gpio.Level) {
	b.out(b.clk, "CLK", l)
}

func (b *bus) setDIO(l gpio.Level) {
	b.out(b.dio, "DIO", l)
}

func (b *bus) out(p gpio.PinOut, name string, l gpio.Level) {
	if b.err != nil {
		return
	}
	if err := p.Out(l); err != nil {
		b.err = fmt.Errorf("tm1637: failed to drive %s: %w", name, err)
	}
}

// start signals the beginning of a frame: DIO falls while CLK is high.
func (b *bus) start() {
	b.setDIO(gpio.Low)
	b.wait()
	b.setCLK(gpio.Low)
	b.wait()
}

// stop signals the end of a frame: DIO rises while CLK is high.
func (b *bus) stop() {
	b.setDIO(gpio.Low)
	b.wait()
	b.setCLK(gpio.High)
	b.wait()
	b.setDIO(gpio.High)
}

// writeByte clocks v out LSB first. The chip latches DIO on the rising edge of
// CLK. A ninth clock pulse covers the acknowledge bit, which is not checked.
func (b *bus) writeByte(v byte) {
	for i := 0; i < 8; i++ {
		b.setDIO(gpio.Level((v>>i)&1 == 1))
		b.wait()
		b.setCLK(gpio.High)
		b.wait()
		b.setCLK(gpio.Low)
		b.wait()
	}
	b.setCLK(gpio.Low)
	b.wait()
	b.setCLK(gpio.High)
	b.wait()
	b.setCLK(gpio.Low)
	b.wait()
}

// frame sends data between a start and a stop condition.
func (b *bus) frame(data ...byte) error {
	b.err = nil
	if glog.V(3) {
		glog.Infof("tm1637: frame % x", data)
	}
	b.start()
	for _, v := range data {
		b.writeByte(v)
	}
	b.stop()
	return b.err
}
