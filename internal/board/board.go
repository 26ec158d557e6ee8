// Package board opens a TM1637 from command line flags, either on real GPIO
// pins through periph.io or on a simulated chip.
package board

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"periph.io/x/devices/v3/tm1637"
	"periph.io/x/devices/v3/tm1637/tm1637test"
)

// Config describes the wiring of the module.
type Config struct {
	CLK        string // CLK pin name
	DIO        string // DIO pin name
	Digits     int
	Brightness int
	Decimal    bool
	Delay      time.Duration
	Sim        bool // use a simulated chip instead of GPIO pins
}

// DefaultConfig matches a 4 digit module on GPIO23/GPIO24.
var DefaultConfig = Config{
	CLK:        "GPIO23",
	DIO:        "GPIO24",
	Digits:     tm1637.DefaultOpts.Digits,
	Brightness: tm1637.DefaultOpts.Brightness,
	Delay:      tm1637.DefaultDelay,
}

// RegisterFlags binds c to flags of fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.CLK, "clk", c.CLK, "CLK pin name")
	fs.StringVar(&c.DIO, "dio", c.DIO, "DIO pin name")
	fs.IntVar(&c.Digits, "digits", c.Digits, "Number of digits (1-6)")
	fs.IntVar(&c.Brightness, "brightness", c.Brightness, "Initial brightness (0-7)")
	fs.BoolVar(&c.Decimal, "decimal", c.Decimal, "Module has a decimal point per digit")
	fs.DurationVar(&c.Delay, "delay", c.Delay, "Delay between bus transitions")
	fs.BoolVar(&c.Sim, "sim", c.Sim, "Use a simulated display instead of GPIO pins")
}

// Board is an opened display.
type Board struct {
	Dev  *tm1637.Dev
	Chip *tm1637test.Chip // set in simulation only
}

// Open initializes periph.io, looks up the pins and opens the display. With
// c.Sim no hardware is touched.
func Open(c Config) (*Board, error) {
	opts := &tm1637.Opts{
		Brightness: c.Brightness,
		Digits:     c.Digits,
		Delay:      c.Delay,
		Decimal:    c.Decimal,
	}

	if c.Sim {
		chip := tm1637test.NewChip()
		dev, err := tm1637.New(chip.CLK, chip.DIO, opts)
		if err != nil {
			return nil, err
		}
		glog.Infof("opened simulated %v", dev)
		return &Board{Dev: dev, Chip: chip}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io: %w", err)
	}
	clk, err := pin(c.CLK)
	if err != nil {
		return nil, err
	}
	dio, err := pin(c.DIO)
	if err != nil {
		return nil, err
	}
	dev, err := tm1637.New(clk, dio, opts)
	if err != nil {
		return nil, err
	}
	glog.Infof("opened %v on CLK=%s DIO=%s", dev, clk, dio)
	return &Board{Dev: dev}, nil
}

// Render draws the simulated display, or returns "" on hardware.
func (b *Board) Render() string {
	if b.Chip == nil {
		return ""
	}
	return b.Chip.Render(b.Dev.Digits())
}

// Close turns the display off.
func (b *Board) Close() error {
	return b.Dev.Halt()
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, errors.New("pin name required")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", name)
	}
	return p, nil
}
