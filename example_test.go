package tm1637_test

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"periph.io/x/devices/v3/tm1637"
	"periph.io/x/devices/v3/tm1637/tm1637test"
)

func ExampleNew() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	clk := gpioreg.ByName("GPIO23")
	dio := gpioreg.ByName("GPIO24")
	if clk == nil || dio == nil {
		log.Fatal("failed to find pins")
	}
	dev, err := tm1637.New(clk, dio, &tm1637.Opts{Brightness: 3, Digits: 4})
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	if err := dev.HourMinute(12, 34, true); err != nil {
		log.Fatal(err)
	}
}

func ExampleDev_Number() {
	chip := tm1637test.NewChip()
	dev, err := tm1637.New(chip.CLK, chip.DIO, &tm1637.Opts{Brightness: 7, Digits: 4, Clock: tm1637test.NewClock()})
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Number(-42); err != nil {
		log.Fatal(err)
	}
	ram := chip.RAM()
	fmt.Printf("% x\n", ram[:dev.Digits()])
	// Output: 00 40 66 5b
}
