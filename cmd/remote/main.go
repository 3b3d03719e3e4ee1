package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/linesumo/pkg/bridge"
	"github.com/robotalks/linesumo/pkg/cli/sh"
	"github.com/robotalks/linesumo/pkg/env"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/joystick"
	"github.com/robotalks/linesumo/pkg/radio"
	"github.com/robotalks/linesumo/pkg/remote"
)

func init() {
	env.SetupFlags()
	radio.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	bootTime := time.Now()
	flag.Parse()

	conf := env.Default()
	console := bridge.NewConsole(os.Stdout)
	app := radio.NewApp(radio.Default(), conf.MustOpenLink(), bootTime)

	values := &remote.Values{}
	menu := remote.NewMenu(values, app)
	menu.Dest = app.DestAddr
	display := remote.NewDisplay(menu, &remote.TextScreen{Out: os.Stdout})

	b := &bridge.Bridge{Radio: app, Out: console}
	app.Dispatcher.
		Register("stdio", bridge.NewStdioHandler(b)).
		Register("data", b.DataHandler()).
		Register("display", values)

	tasks := []fx.Runnable{
		app.Task(),
		display.Task(),
		fx.NewLoop(console.Name(), bridge.ConsolePeriod).AddController(console),
	}
	if exp := conf.Exporter(); exp != nil {
		tasks = append(tasks, exp)
	}
	if in := joystick.Default().NewInput(b, display); in != nil {
		tasks = append(tasks, in)
	}
	if err := display.SetEvent(remote.EventRefresh); err != nil {
		log.Fatalln(err)
	}
	if err := sh.Serve(sh.New(b, display), flag.Args(), tasks...); err != nil {
		log.Fatalln(err)
	}
}
