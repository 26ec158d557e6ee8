package tm1637

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/devices/v3/tm1637/segments"
)

// DefaultScrollDelay is the usual time each step of a scroll stays visible.
const DefaultScrollDelay = 250 * time.Millisecond

// Hex displays v as zero padded lowercase hex, right aligned. Only the lower
// 4 bits per digit of v are shown.
func (d *Dev) Hex(v int) error {
	mask := uint64(1)<<(4*uint(d.digits)) - 1
	return d.writeString(fmt.Sprintf("%0*x", d.digits, uint64(v)&mask))
}

// Number displays v right aligned. v is clamped to what fits, -999 through
// 9999 on a 4 digit display.
func (d *Dev) Number(v int) error {
	v = clamp(v, -pow10(d.digits-1)+1, pow10(d.digits)-1)
	return d.writeString(fmt.Sprintf("%*d", d.digits, v))
}

// Numbers displays two values -9 through 99 with leading zeros. colon lights
// the colon between them.
func (d *Dev) Numbers(a, b int, colon bool) error {
	return d.HourMinute(a, b, colon)
}

// HourMinute displays hour and minute as HHMM. Each is clamped to -9 through
// 99. colon lights the colon between them.
func (d *Dev) HourMinute(hour, minute int, colon bool) error {
	segs, err := segments.EncodeString(fmt.Sprintf("%02d%02d", clamp(hour, -9, 99), clamp(minute, -9, 99)))
	if err != nil {
		return err
	}
	if colon {
		segs[1] |= segments.Colon
	}
	return d.Write(segs, 0)
}

// Temperature displays v right aligned followed by a degree sign and a 'c' on
// the last two digits. Values that do not fit show "lo" or "hi".
func (d *Dev) Temperature(v int) error {
	if d.digits < 2 {
		return fmt.Errorf("%w: temperature needs 2 digits", ErrPosition)
	}
	switch {
	case v < temperatureLow(d.digits):
		if err := d.Show("lo", false); err != nil {
			return err
		}
	case v > pow10(d.digits-2)-1:
		if err := d.Show("hi", false); err != nil {
			return err
		}
	default:
		if err := d.writeString(fmt.Sprintf("%*d", d.digits-2, v)); err != nil {
			return err
		}
	}
	return d.Write([]byte{segments.Degree, segments.EncodeDigit(0xc)}, d.digits-2)
}

// temperatureLow is the smallest value that fits in digits-2 columns,
// -10^(digits-3)+1. Without room for a minus sign only positive values fit.
func temperatureLow(digits int) int {
	if digits < 3 {
		return 1
	}
	return -pow10(digits-3) + 1
}

// Show displays s from the first digit, truncated to the display width.
// colon lights the MSB of the second digit.
func (d *Dev) Show(s string, colon bool) error {
	if r := []rune(s); len(r) > d.digits {
		s = string(r[:d.digits])
	}
	segs, err := d.Encode(s)
	if err != nil {
		return err
	}
	if len(segs) > 1 && colon {
		segs[1] |= segments.Colon
	}
	return d.Write(segs, 0)
}

// Scroll moves s across the display from right to left, one digit every
// delay. It returns once s has left the display.
func (d *Dev) Scroll(s string, delay time.Duration) error {
	segs, err := d.Encode(s)
	if err != nil {
		return err
	}
	return d.ScrollSegments(segs, delay)
}

// ScrollSegments is like Scroll for patterns that are already encoded.
func (d *Dev) ScrollSegments(segs []byte, delay time.Duration) error {
	return d.ScrollContext(context.Background(), segs, delay)
}

// ScrollContext is like ScrollSegments but stops early when ctx is done. ctx
// is checked between steps.
func (d *Dev) ScrollContext(ctx context.Context, segs []byte, delay time.Duration) error {
	data := make([]byte, d.digits+len(segs)+d.digits)
	copy(data[d.digits:], segs)
	for i := 0; i <= len(segs)+d.digits; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Write(data[i:i+d.digits], 0); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.clock.After(delay):
		}
	}
	return nil
}

func (d *Dev) writeString(s string) error {
	segs, err := d.Encode(s)
	if err != nil {
		return err
	}
	return d.Write(segs, 0)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func pow10(n int) int {
	p := 1
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}
