// tm1637sh is an interactive shell for a TM1637 display.
//
//	tm1637sh -sim                 interactive, simulated display
//	tm1637sh -e number 42         run one command and exit
//
// With -sim every command prints the simulated display.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"periph.io/x/devices/v3/tm1637/internal/board"
	"periph.io/x/devices/v3/tm1637/internal/control"
)

var help = map[string]string{
	control.OpShow:        "show TEXT: display text from the first digit",
	control.OpColon:       "colon TEXT: like show with the colon lit",
	control.OpNumber:      "number N: display a decimal number",
	control.OpHex:         "hex N: display a hex number",
	control.OpTime:        "time HH:MM | HH MM: display a time, colon lit with ':'",
	control.OpTemperature: "temperature N: display N followed by degrees C",
	control.OpScroll:      "scroll TEXT: scroll text across the display",
	control.OpBrightness:  "brightness 0-7: set the brightness",
	control.OpRaw:         "raw HEX...[@POS]: write segment patterns",
	control.OpClear:       "clear: blank every digit",
	control.OpOff:         "off: turn the display off",
	control.OpClock:       "clock: show the time until the next command",
}

func main() {
	cfg := board.DefaultConfig
	cfg.RegisterFlags(flag.CommandLine)
	evalOnly := flag.Bool("e", false, "Run the command given as arguments and exit")
	flag.Parse()
	defer glog.Flush()

	b, err := board.Open(cfg)
	if err != nil {
		glog.Exitf("open display: %v", err)
	}
	defer b.Close()
	ctl := control.New(b.Dev, nil)
	defer ctl.StopClock()

	sh := ishell.New()
	for _, op := range control.Ops {
		sh.AddCmd(&ishell.Cmd{
			Name: op,
			Help: help[op],
			Func: runner(ctl, b, op),
		})
	}
	sh.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "status: print the display state",
		Func: func(c *ishell.Context) {
			st := ctl.Status()
			c.Printf("digits=%d brightness=%d clock=%t last=%q\n", st.Digits, st.Brightness, st.Clock, st.Last)
		},
	})

	if *evalOnly || flag.NArg() > 0 {
		if err := sh.Process(flag.Args()...); err != nil {
			glog.Exit(err)
		}
		return
	}
	sh.Run()
}

func runner(ctl *control.Controller, b *board.Board, op string) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		// Ctrl-C stops a long scroll.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := ctl.Apply(ctx, control.Command{Op: op, Arg: strings.Join(c.Args, " ")}); err != nil {
			c.Err(err)
			return
		}
		if r := b.Render(); r != "" {
			c.Print(r)
		}
	}
}
