package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/linesumo/pkg/bridge"
	"github.com/robotalks/linesumo/pkg/cli/sh"
	"github.com/robotalks/linesumo/pkg/drive"
	"github.com/robotalks/linesumo/pkg/env"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/joystick"
	"github.com/robotalks/linesumo/pkg/linefollow"
	"github.com/robotalks/linesumo/pkg/radio"
	"github.com/robotalks/linesumo/pkg/sim"
	"github.com/robotalks/linesumo/pkg/sumo"
)

var noShell bool

func init() {
	env.SetupFlags()
	radio.SetupFlags()
	joystick.SetupFlags()
	linefollow.SetupFlags()
	sumo.SetupFlags()
	sim.SetupFlags()
	flag.BoolVar(&noShell, "no-shell", noShell, "Run without the interactive shell.")
}

func main() {
	bootTime := time.Now()
	flag.Parse()

	conf := env.Default()
	quirks, err := conf.Quirks()
	if err != nil {
		log.Fatalln(err)
	}
	robot := sim.NewRobot(sim.Default(), &sim.DefaultTrack)
	robot.Quirks = quirks
	drv := drive.Adjust(robot, quirks)

	console := bridge.NewConsole(os.Stdout)
	app := radio.NewApp(radio.Default(), conf.MustOpenLink(), bootTime)

	line := linefollow.New(linefollow.Default(), robot, drv, robot)
	line.Lap, line.Status = app, console
	sumoCtl := sumo.New(sumo.NewConfig(), drv)
	sumoCtl.Reporter = &bridge.RunningReporter{Radio: app, Behavior: sumoCtl.Name()}

	b := &bridge.Bridge{Line: line, Sumo: sumoCtl, Radio: app, Out: console}
	b.RegisterHandlers(&app.Dispatcher, robot)

	tasks := []fx.Runnable{
		robot.Task(),
		line.Task(),
		sumoCtl.Task(),
		app.Task(),
		fx.NewLoop(console.Name(), bridge.ConsolePeriod).AddController(console),
	}
	if exp := conf.Exporter(); exp != nil {
		tasks = append(tasks, exp)
	}
	if in := joystick.Default().NewInput(b, nil); in != nil {
		tasks = append(tasks, in)
	}
	var shell *sh.Shell
	if !noShell {
		shell = sh.New(b, nil)
	}
	if err := sh.Serve(shell, flag.Args(), tasks...); err != nil {
		log.Fatalln(err)
	}
}
