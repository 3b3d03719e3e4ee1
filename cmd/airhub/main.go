package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/radio/link/websocket"
)

var listenAddr = ":8088"

func init() {
	if val := os.Getenv("ROBO_AIRHUB_ADDR"); val != "" {
		listenAddr = val
	}
	flag.StringVar(&listenAddr, "listen", listenAddr, "Listen address, peers connect to ws://ADDR/air.")
}

func main() {
	flag.Parse()

	hub := websocket.NewHub()
	mux := http.NewServeMux()
	mux.Handle("/air", hub.Handler())
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serve := fx.RunFunc(func(ctx context.Context) error {
		glog.Infof("airhub: serving on %s", listenAddr)
		err := fx.RunWithContextCancel(ctx, func() { server.Close() }, server.ListenAndServe)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	if err := fx.NewRunner().HandleSignals().Go(serve).Wait(); err != nil {
		log.Fatalln(err)
	}
}
