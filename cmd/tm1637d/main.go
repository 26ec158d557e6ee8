// tm1637d serves a TM1637 display over HTTP and, optionally, MQTT.
//
//	tm1637d -clk GPIO23 -dio GPIO24 -http :8080 -mqtt mqtt://broker/home/display
//
// POST /api/number with body "42" shows 42; publishing "12:30" on
// home/display/time shows the time.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"

	"periph.io/x/devices/v3/tm1637/internal/board"
	"periph.io/x/devices/v3/tm1637/internal/control"
)

func main() {
	cfg := board.DefaultConfig
	cfg.RegisterFlags(flag.CommandLine)
	httpAddr := flag.String("http", ":8080", "HTTP listen address, empty to disable")
	brokerURL := flag.String("mqtt", "", "MQTT broker URL, the path is the topic prefix")
	startClock := flag.Bool("clock", false, "Show the time until the first command")
	scrollDelay := flag.Duration("scroll-delay", 0, "Scroll step time (default 250ms)")
	flag.Parse()
	defer glog.Flush()

	b, err := board.Open(cfg)
	if err != nil {
		glog.Exitf("open display: %v", err)
	}
	defer b.Close()

	ctl := control.New(b.Dev, nil)
	if *scrollDelay > 0 {
		ctl.ScrollDelay = *scrollDelay
	}
	defer ctl.StopClock()
	if *startClock {
		ctl.StartClock()
	}

	if *brokerURL != "" {
		sub, err := control.NewSubscriber(ctl, *brokerURL)
		if err != nil {
			glog.Exitf("mqtt: %v", err)
		}
		if err := sub.Connect(); err != nil {
			glog.Exitf("mqtt: connect %s: %v", *brokerURL, err)
		}
		defer sub.Close()
	}

	var srv *http.Server
	if *httpAddr != "" {
		srv = &http.Server{Addr: *httpAddr, Handler: control.NewRouter(ctl)}
		go func() {
			glog.Infof("http: listening on %s", *httpAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				glog.Errorf("http: %v", err)
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	glog.Info("shutting down")

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			glog.Warningf("http: shutdown: %v", err)
		}
	}
}
