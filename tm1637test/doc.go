// Package tm1637test provides a software TM1637 for tests and for running the
// tm1637 commands without hardware.
//
// Chip exposes two gpio.PinOut implementations, CLK and DIO. It watches the
// transitions driven on them the way the real controller does: a falling DIO
// while CLK is high starts a frame, DIO is latched on every rising CLK edge,
// the ninth edge of a byte is the acknowledge slot and a rising DIO while CLK
// is high ends the frame. Decoded frames update the display memory, the
// brightness and the on/off state.
//
// Clock is a clockwork.Clock that never blocks: Sleep and After advance a fake
// time and record the requested duration.
//
//	chip := tm1637test.NewChip()
//	clock := tm1637test.NewClock()
//	dev, _ := tm1637.New(chip.CLK, chip.DIO, &tm1637.Opts{Digits: 4, Brightness: 7, Clock: clock})
//	_ = dev.Show("12ab", true)
//	fmt.Print(chip)
package tm1637test
