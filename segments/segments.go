package segments

import (
	"errors"
	"fmt"
	"strings"
)

// MSB is the overloaded eighth segment. Depending on the module it lights the
// decimal point of a digit or the colon after it.
const MSB byte = 0x80

const (
	// Colon lights the colon on modules wired with one between digit 1 and 2.
	Colon = MSB
	// DecimalPoint lights the point after a digit on decimal modules.
	DecimalPoint = MSB
)

// Indexes of the non-alphanumeric entries of the table.
const (
	blankIndex  = 36
	dashIndex   = 37
	degreeIndex = 38
)

// 0-9, a-z, blank, dash, star
var table = [39]byte{
	0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07, 0x7F, 0x6F,
	0x77, 0x7C, 0x39, 0x5E, 0x79, 0x71, 0x3D, 0x76, 0x06, 0x1E,
	0x76, 0x38, 0x55, 0x54, 0x3F, 0x73, 0x67, 0x50, 0x6D, 0x78,
	0x3E, 0x1C, 0x2A, 0x76, 0x6E, 0x5B,
	0x00, 0x40, 0x63,
}

// Patterns that are not reachable through a character of their own.
var (
	Blank  = table[blankIndex]
	Dash   = table[dashIndex]
	Degree = table[degreeIndex]
)

// ErrCharRange is matched by every CharError.
var ErrCharRange = errors.New("segments: character out of range")

// CharError reports a rune that has no 7-segment pattern.
type CharError struct {
	Char rune
}

func (e *CharError) Error() string {
	return fmt.Sprintf("segments: character out of range: %d '%c'", e.Char, e.Char)
}

// Unwrap returns ErrCharRange.
func (e *CharError) Unwrap() error {
	return ErrCharRange
}

// Table returns a copy of the 39 entry pattern table: digits 0-9, letters a-z,
// blank, dash and star.
func Table() [39]byte {
	return table
}

// EncodeDigit converts a value 0-15 to the pattern of its hex digit. Only the
// lower 4 bits of v are used.
func EncodeDigit(v int) byte {
	return table[v&0x0f]
}

// EncodeChar converts a character 0-9, a-z, A-Z, space, dash or star to a
// pattern. Letters are case-insensitive; the star shows as a degree sign.
func EncodeChar(c rune) (byte, error) {
	switch {
	case c == ' ':
		return table[blankIndex], nil
	case c == '*':
		return table[degreeIndex], nil
	case c == '-':
		return table[dashIndex], nil
	case c >= 'A' && c <= 'Z':
		return table[c-'A'+10], nil
	case c >= 'a' && c <= 'z':
		return table[c-'a'+10], nil
	case c >= '0' && c <= '9':
		return table[c-'0'], nil
	}
	return 0, &CharError{Char: c}
}

// EncodeString converts every rune of s to a pattern. The result has one byte
// per rune.
func EncodeString(s string) ([]byte, error) {
	segs := make([]byte, 0, len(s))
	for _, c := range s {
		b, err := EncodeChar(c)
		if err != nil {
			return nil, err
		}
		segs = append(segs, b)
	}
	return segs, nil
}

// EncodeDecimalString converts s for modules with a decimal point after each
// digit. A '.' sets the MSB of the pattern before it instead of taking a digit
// of its own, so the result is shorter than s by the number of dots. A '.'
// with nothing before it is dropped.
func EncodeDecimalString(s string) ([]byte, error) {
	segs := make([]byte, 0, len(s))
	for _, c := range s {
		if c == '.' {
			if len(segs) > 0 {
				segs[len(segs)-1] |= DecimalPoint
			}
			continue
		}
		b, err := EncodeChar(c)
		if err != nil {
			return nil, err
		}
		segs = append(segs, b)
	}
	return segs, nil
}

// Render draws segs as three lines of ASCII art, one 4 column cell per digit.
// The MSB is drawn as a '.' after the digit.
func Render(segs []byte) string {
	var lines [3]strings.Builder
	for _, s := range segs {
		lines[0].WriteString(" " + pick(s, 0, "_") + "  ")
		lines[1].WriteString(pick(s, 5, "|") + pick(s, 6, "_") + pick(s, 1, "|") + " ")
		lines[2].WriteString(pick(s, 4, "|") + pick(s, 3, "_") + pick(s, 2, "|") + pick(s, 7, "."))
	}
	return lines[0].String() + "\n" + lines[1].String() + "\n" + lines[2].String() + "\n"
}

func pick(s byte, bit uint, on string) string {
	if s&(1<<bit) != 0 {
		return on
	}
	return " "
}
