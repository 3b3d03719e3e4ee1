package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/linesumo/pkg/bridge"
	"github.com/robotalks/linesumo/pkg/cli/sh"
	"github.com/robotalks/linesumo/pkg/env"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/laptime"
	"github.com/robotalks/linesumo/pkg/radio"
)

var quiet bool

func init() {
	env.SetupFlags()
	radio.SetupFlags()
	flag.BoolVar(&quiet, "q", quiet, "Do not print every received message.")
}

func main() {
	bootTime := time.Now()
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	conf := env.Default()
	console := bridge.NewConsole(os.Stdout)
	app := radio.NewApp(radio.Default(), conf.MustOpenLink(), bootTime)
	timer := laptime.New(console)

	if !quiet {
		app.Dispatcher.Register("monitor", radio.HandlerFunc(func(_ context.Context, msg *radio.Message) (bool, error) {
			log.Println(msg)
			return false, nil
		}))
	}
	b := &bridge.Bridge{Radio: app, Laps: timer, Out: console}
	app.Dispatcher.
		Register("laptime", timer).
		Register("stdio", bridge.NewStdioHandler(b)).
		Register("data", b.DataHandler())

	tasks := []fx.Runnable{
		app.Task(),
		fx.NewLoop(console.Name(), bridge.ConsolePeriod).AddController(console),
	}
	if exp := conf.Exporter(); exp != nil {
		tasks = append(tasks, exp)
	}
	if err := sh.Serve(sh.New(b, nil), flag.Args(), tasks...); err != nil {
		log.Fatalln(err)
	}
}
