// Package control drives one TM1637 from several sources at once: an HTTP
// API, MQTT topics, an interactive shell and a live clock. All of them go
// through a Controller, which keeps the display to one user at a time.
package control

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/jonboulle/clockwork"

	"periph.io/x/devices/v3/tm1637"
	"periph.io/x/devices/v3/tm1637/segments"
)

// Operations understood by Apply.
const (
	OpShow        = "show"        // text
	OpColon       = "colon"       // text, colon lit
	OpNumber      = "number"      // decimal integer
	OpHex         = "hex"         // hex integer, 0x prefix optional
	OpTime        = "time"        // "HH:MM" with colon, "HH MM" without
	OpTemperature = "temperature" // decimal integer
	OpScroll      = "scroll"      // text
	OpBrightness  = "brightness"  // 0-7
	OpRaw         = "raw"         // hex pattern bytes, optional "@pos" suffix
	OpClear       = "clear"
	OpOff         = "off"
	OpClock       = "clock" // live HH:MM clock until the next command
)

// Ops lists every operation, in help order.
var Ops = []string{
	OpShow, OpColon, OpNumber, OpHex, OpTime, OpTemperature, OpScroll,
	OpBrightness, OpRaw, OpClear, OpOff, OpClock,
}

// ClockBlink is the period the live clock toggles its colon at.
const ClockBlink = 500 * time.Millisecond

var (
	// ErrUnknownOp is returned for an operation not in Ops.
	ErrUnknownOp = errors.New("control: unknown operation")
	// ErrBadArgument is returned when the argument of an operation cannot be
	// parsed.
	ErrBadArgument = errors.New("control: bad argument")
)

// Command is one operation with its textual argument.
type Command struct {
	Op  string
	Arg string
}

func (c Command) String() string {
	if c.Arg == "" {
		return c.Op
	}
	return c.Op + " " + c.Arg
}

// Status describes the display.
type Status struct {
	Digits     int    `json:"digits"`
	Brightness int    `json:"brightness"`
	Clock      bool   `json:"clock"`
	Last       string `json:"last,omitempty"`
}

// Controller serializes access to a display.
type Controller struct {
	// ScrollDelay is the step time of OpScroll.
	ScrollDelay time.Duration

	clock clockwork.Clock

	mu   sync.Mutex // guards dev and last
	dev  *tm1637.Dev
	last string

	clockMu   sync.Mutex
	stopClock context.CancelFunc
	clockDone chan struct{}
}

// New returns a Controller for dev. clock drives scroll steps and the live
// clock; nil selects the real clock.
func New(dev *tm1637.Dev, clock clockwork.Clock) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{
		ScrollDelay: tm1637.DefaultScrollDelay,
		clock:       clock,
		dev:         dev,
	}
}

// Apply runs cmd. Any command stops a running live clock; OpClock starts it.
// ctx bounds OpScroll only.
func (c *Controller) Apply(ctx context.Context, cmd Command) error {
	if cmd.Op == OpClock {
		c.StartClock()
		return nil
	}
	c.StopClock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.run(ctx, cmd); err != nil {
		return err
	}
	c.last = cmd.String()
	glog.V(1).Infof("applied %q", c.last)
	return nil
}

func (c *Controller) run(ctx context.Context, cmd Command) error {
	d := c.dev
	switch cmd.Op {
	case OpShow:
		return d.Show(cmd.Arg, false)
	case OpColon:
		return d.Show(cmd.Arg, true)
	case OpNumber:
		v, err := parseInt(cmd.Arg)
		if err != nil {
			return err
		}
		return d.Number(v)
	case OpHex:
		s := strings.TrimPrefix(strings.TrimSpace(cmd.Arg), "0x")
		v, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		return d.Hex(int(v))
	case OpTime:
		h, m, colon, err := parseTime(cmd.Arg)
		if err != nil {
			return err
		}
		return d.HourMinute(h, m, colon)
	case OpTemperature:
		v, err := parseInt(cmd.Arg)
		if err != nil {
			return err
		}
		return d.Temperature(v)
	case OpScroll:
		segs, err := d.Encode(cmd.Arg)
		if err != nil {
			return err
		}
		return d.ScrollContext(ctx, segs, c.ScrollDelay)
	case OpBrightness:
		v, err := parseInt(cmd.Arg)
		if err != nil {
			return err
		}
		return d.SetBrightness(v)
	case OpRaw:
		segs, pos, err := parseRaw(cmd.Arg)
		if err != nil {
			return err
		}
		return d.Write(segs, pos)
	case OpClear:
		return d.Clear()
	case OpOff:
		return d.Halt()
	}
	return fmt.Errorf("%w %q", ErrUnknownOp, cmd.Op)
}

// Status returns the current state of the display.
func (c *Controller) Status() Status {
	c.clockMu.Lock()
	running := c.stopClock != nil
	c.clockMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Digits:     c.dev.Digits(),
		Brightness: c.dev.Brightness(),
		Clock:      running,
		Last:       c.last,
	}
}

// StartClock shows the time as HH:MM, blinking the colon, until StopClock or
// the next Apply. It does nothing if the clock already runs.
func (c *Controller) StartClock() {
	c.clockMu.Lock()
	defer c.clockMu.Unlock()
	if c.stopClock != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.stopClock = cancel
	c.clockDone = make(chan struct{})
	go c.runClock(ctx, c.clockDone)

	c.mu.Lock()
	c.last = OpClock
	c.mu.Unlock()
}

// StopClock stops the live clock and waits for it to exit.
func (c *Controller) StopClock() {
	c.clockMu.Lock()
	defer c.clockMu.Unlock()
	if c.stopClock == nil {
		return
	}
	c.stopClock()
	<-c.clockDone
	c.stopClock = nil
	c.clockDone = nil
}

func (c *Controller) runClock(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	colon := true
	for {
		now := c.clock.Now()
		c.mu.Lock()
		err := c.dev.HourMinute(now.Hour(), now.Minute(), colon)
		c.mu.Unlock()
		if err != nil {
			glog.Warningf("clock: %v", err)
		}
		colon = !colon

		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(ClockBlink):
		}
	}
}

// IsUserError reports whether err was caused by a bad command rather than by
// the display.
func IsUserError(err error) bool {
	for _, e := range []error{
		ErrUnknownOp, ErrBadArgument, segments.ErrCharRange,
		tm1637.ErrBrightness, tm1637.ErrPosition,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	return v, nil
}

// parseTime accepts "HH:MM" (colon lit) and "HH MM".
func parseTime(s string) (hour, minute int, colon bool, err error) {
	s = strings.TrimSpace(s)
	var parts []string
	if strings.Contains(s, ":") {
		parts = strings.SplitN(s, ":", 2)
		colon = true
	} else {
		parts = strings.Fields(s)
	}
	if len(parts) != 2 {
		return 0, 0, false, fmt.Errorf("%w: want HH:MM or HH MM, got %q", ErrBadArgument, s)
	}
	if hour, err = parseInt(parts[0]); err != nil {
		return 0, 0, false, err
	}
	if minute, err = parseInt(parts[1]); err != nil {
		return 0, 0, false, err
	}
	return hour, minute, colon, nil
}

// parseRaw accepts hex bytes, optionally space separated, with an optional
// "@pos" suffix: "3f 06 5b 4f", "7f@2".
func parseRaw(s string) ([]byte, int, error) {
	pos := 0
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		p, err := parseInt(s[i+1:])
		if err != nil {
			return nil, 0, err
		}
		pos, s = p, s[:i]
	}
	segs, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	return segs, pos, nil
}
