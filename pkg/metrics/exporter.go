package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter serves /metrics over HTTP.
type Exporter struct {
	server *http.Server
}

// NewExporter creates a metrics exporter listening on addr.
func NewExporter(addr string) *Exporter {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Exporter{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Name implements Named.
func (e *Exporter) Name() string {
	return "metrics"
}

// Handler returns the HTTP handler.
func (e *Exporter) Handler() http.Handler {
	return e.server.Handler
}

// Run implements Runnable.
func (e *Exporter) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("metrics: serving on %s", e.server.Addr)
		errCh <- e.server.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		e.server.Close()
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
