// Package segments converts digits and text into 7-segment LED patterns for the
// TM1637 display controller.
//
// Each digit of a 7-segment display is driven by one byte. Bits 0-6 select
// segments a-g and bit 7 drives the decimal point or the colon, depending on how
// the module is wired:
//
//	 --a--
//	|     |
//	f     b
//	|     |
//	 --g--
//	|     |
//	e     c
//	|     |
//	 --d--  .h
//
// Memory layout example for the digit "2":
//
//	Segments: a b d e g
//	Bits:     0 1 3 4 6
//	Byte:     0x5B
//
// This package provides:
//
// - EncodeDigit: a 4-bit value (0-15) to its hex digit pattern
// - EncodeChar: a single rune (0-9, a-z, A-Z, space, dash, star) to a pattern
// - EncodeString: a string to one pattern per rune
// - EncodeDecimalString: like EncodeString, folding '.' into the preceding digit
// - Render: three-line ASCII art of a pattern sequence
//
// Example usage:
//
//	segs, err := segments.EncodeString("12ab")
//	if err != nil {
//		log.Fatal(err)
//	}
//	segs[1] |= segments.Colon // light the colon between digit 1 and 2
//	fmt.Print(segments.Render(segs))
package segments
