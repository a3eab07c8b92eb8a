package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	corelogger "github.com/kilianp07/stripboard/core/logger"
)

// StartPromServer exposes the Prometheus scrape endpoint on addr until the
// context is cancelled. A dedicated mux keeps /metrics off the default one.
func StartPromServer(ctx context.Context, addr string, log corelogger.Logger) error {
	if log == nil {
		log = corelogger.Nop{}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("metrics endpoint shutdown: %v", err)
		}
	}()
	log.Infof("metrics endpoint listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
