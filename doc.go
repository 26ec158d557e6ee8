// Package tm1637 controls a TM1637 7-segment LED display over two GPIO pins.
//
// The TM1637 is an LED controller driving up to 6 digits of 8 segments. It is
// found on the cheap 4 digit modules with either a clock colon or a decimal
// point after each digit.
//
// # Display Characteristics
//
// - 1 to 6 digits, 7 segments plus a decimal point or colon each
// - 8 brightness levels (0-7)
// - Auto-increment or fixed addressing of the 6 digit registers
// - Write-only two-wire interface, no readback of display data
//
// # Hardware Connection
//
// The two-wire interface is not I²C: there is no device address and bytes
// are sent LSB first. Any two GPIO pins can drive it:
//
//	Module Pin → System Pin
//	GND        → GND
//	VCC        → 3.3V or 5V
//	CLK        → GPIO (any available pin)
//	DIO        → GPIO (any available pin)
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"log"
//
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/devices/v3/tm1637"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//
//		// Create device with 4 digits at full brightness
//		dev, err := tm1637.New(gpioreg.ByName("GPIO23"), gpioreg.ByName("GPIO24"), nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		// Show 12:34
//		dev.HourMinute(12, 34, true)
//	}
//
// # Rendering
//
// Every rendering method ends up in Write, which sends raw segment patterns
// starting at a digit position:
//
//	dev.Number(-42)          // " -42"
//	dev.Hex(0xbeef)          // "beef"
//	dev.Temperature(21)      // "21°C"
//	dev.Show("HELP", false)  // "HELP"
//	dev.Scroll("hello world", tm1637.DefaultScrollDelay)
//	dev.Write([]byte{0x76, 0x79, 0x38, 0x73}, 0)
//
// Numeric methods clamp values that do not fit. Write and the string methods
// return an error instead: ErrPosition for a position outside the display,
// and a *segments.CharError for a character without a pattern.
//
// Patterns are built by the segments package.
//
// # Decimal Modules
//
// Modules with a decimal point after each digit set Opts.Decimal. A '.' in a
// string then lights the point of the digit before it:
//
//	dev, _ := tm1637.New(clk, dio, &tm1637.Opts{Brightness: 7, Digits: 4, Decimal: true})
//	dev.Show("3.14", false) // 3 digits, the point lit on the first
//
// # Scrolling
//
// Scroll blocks until the text has moved across the display. ScrollContext
// can be stopped between two steps:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
//	defer cancel()
//	segs, _ := dev.Encode("a long message")
//	dev.ScrollContext(ctx, segs, 200*time.Millisecond)
//
// # Timing
//
// The driver waits Opts.Delay (10µs by default) between every transition of
// CLK or DIO, keeping the clock well under the 250kHz limit of the chip. A
// byte takes 27 delays, a frame 4 more. Delays go through Opts.Clock, which
// tests replace with a fake clock.
//
// The acknowledge bit the chip drives after each byte is clocked but never
// read: a missing or disconnected module is not reported.
//
// # Datasheet
//
// The TM1637 datasheet is published by Titan Micro Electronics. The command
// bytes used here are the data command (0x40), the address command (0xC0)
// and the display control command (0x80).
package tm1637
