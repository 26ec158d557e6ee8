package tm1637

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/devices/v3/tm1637/segments"
)

// MaxDigits is the number of digits the TM1637 can drive.
const MaxDigits = 6

// MaxBrightness is the brightest level, a pulse width of 14/16.
const MaxBrightness = 7

// DefaultDelay is the time between two transitions on the bus. The TM1637
// needs a clock below 250kHz; 10µs keeps well under it.
const DefaultDelay = 10 * time.Microsecond

const (
	cmdData    byte = 0x40 // data command, auto address increment, normal mode
	cmdAddress byte = 0xC0 // address command, OR'ed with the digit position
	cmdDisplay byte = 0x80 // display control command, OR'ed with dspOn and brightness
	dspOn      byte = 0x08
)

var (
	// ErrBrightness is returned for a brightness outside 0-7.
	ErrBrightness = errors.New("tm1637: brightness out of range")
	// ErrDigits is returned for a digit count outside 1-6.
	ErrDigits = errors.New("tm1637: number of digits should be between 1 and 6")
	// ErrPosition is returned for a write position outside the display.
	ErrPosition = errors.New("tm1637: position out of range")
)

// Opts is the configuration for the TM1637 display.
type Opts struct {
	Brightness int // 0 (1/16 pulse width) to 7 (14/16 pulse width)
	Digits     int // Number of digits on the module, 1 to 6

	// Time between bus transitions (default: DefaultDelay)
	Delay time.Duration
	// Clock used for all delays (default: the real clock)
	Clock clockwork.Clock

	// Decimal selects modules with a decimal point after each digit. Strings
	// are then encoded with '.' folded into the preceding digit.
	Decimal bool
}

// DefaultOpts is the configuration used when New is given nil options.
var DefaultOpts = Opts{
	Brightness: MaxBrightness,
	Digits:     4,
}

// Dev is the device handle for a TM1637 display.
//
// It is not safe for concurrent use.
type Dev struct {
	bus

	brightness int
	digits     int
	decimal    bool
}

// New creates a TM1637 device driven through the clk and dio pins.
//
// Both pins are driven low, then the display is switched on in auto address
// increment mode at the configured brightness.
//
// opts can be nil to use DefaultOpts.
func New(clk, dio gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Brightness < 0 || opts.Brightness > MaxBrightness {
		return nil, ErrBrightness
	}
	if opts.Digits < 1 || opts.Digits > MaxDigits {
		return nil, ErrDigits
	}

	d := &Dev{
		bus: bus{
			clk:   clk,
			dio:   dio,
			delay: opts.Delay,
			clock: opts.Clock,
		},
		brightness: opts.Brightness,
		digits:     opts.Digits,
		decimal:    opts.Decimal,
	}
	if d.delay <= 0 {
		d.delay = DefaultDelay
	}
	if d.clock == nil {
		d.clock = clockwork.NewRealClock()
	}

	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init puts both lines low and turns the display on.
func (d *Dev) init() error {
	if err := d.clk.Out(gpio.Low); err != nil {
		return fmt.Errorf("tm1637: failed to pull CLK low: %w", err)
	}
	if err := d.dio.Out(gpio.Low); err != nil {
		return fmt.Errorf("tm1637: failed to pull DIO low: %w", err)
	}
	d.wait()

	if err := d.writeDataCmd(); err != nil {
		return err
	}
	return d.writeDisplayCtrl()
}

func (d *Dev) writeDataCmd() error {
	return d.frame(cmdData)
}

func (d *Dev) writeDisplayCtrl() error {
	return d.frame(cmdDisplay | dspOn | byte(d.brightness))
}

// Brightness returns the current brightness, 0-7.
func (d *Dev) Brightness() int {
	return d.brightness
}

// SetBrightness sets the display brightness, 0-7. The change is sent to the
// display immediately.
func (d *Dev) SetBrightness(level int) error {
	if level < 0 || level > MaxBrightness {
		return ErrBrightness
	}
	d.brightness = level
	if err := d.writeDataCmd(); err != nil {
		return err
	}
	return d.writeDisplayCtrl()
}

// Digits returns the number of digits of the display.
func (d *Dev) Digits() int {
	return d.digits
}

// Write displays segs moving right from digit pos. On modules with a colon,
// the MSB of the second pattern controls the colon between the second and
// third digit.
//
// Nothing is sent when pos is outside the display.
func (d *Dev) Write(segs []byte, pos int) error {
	if pos < 0 || pos >= d.digits {
		return ErrPosition
	}
	if err := d.writeDataCmd(); err != nil {
		return err
	}
	frame := make([]byte, 0, len(segs)+1)
	frame = append(frame, cmdAddress|byte(pos))
	frame = append(frame, segs...)
	if err := d.frame(frame...); err != nil {
		return err
	}
	// A display control is always resent, a brightness change in between
	// would otherwise leave the display off.
	return d.writeDisplayCtrl()
}

// Clear blanks every digit.
func (d *Dev) Clear() error {
	return d.Write(make([]byte, d.digits), 0)
}

// Encode converts s to segment patterns, folding '.' into the preceding digit
// when the display was opened with Opts.Decimal.
func (d *Dev) Encode(s string) ([]byte, error) {
	if d.decimal {
		return segments.EncodeDecimalString(s)
	}
	return segments.EncodeString(s)
}

// Halt turns the display off. The next Write turns it back on.
func (d *Dev) Halt() error {
	return d.frame(cmdDisplay | byte(d.brightness))
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("tm1637.Dev{%d digits}", d.digits)
}
