// Package server wraps the scoring pipeline in an HTTP API. Each request
// runs an independent pipeline invocation with a unique output name, so
// concurrent requests never clobber each other's files.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"f1score/pkg/config"
	"f1score/pkg/data"
	"f1score/pkg/metrics"
)

const (
	shutdownWaitSeconds  = 5
	serverTimeoutSeconds = 300
	serverMaxHeaderBytes = 20
)

// Server holds the wiring shared by all handlers. The store is optional;
// without it the run ledger endpoints degrade gracefully.
type Server struct {
	cfg     *config.Config
	store   *data.Store
	version string
}

func New(cfg *config.Config, store *data.Store, version string) *Server {
	return &Server{cfg: cfg, store: store, version: version}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/score", s.scoreHandler).Methods(http.MethodPost)
	r.HandleFunc("/upload_and_score", s.uploadAndScoreHandler).Methods(http.MethodPost)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", s.versionHandler).Methods(http.MethodGet)
	r.HandleFunc("/runs", s.runsHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(),
		promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}

// Start runs the server until SIGINT or SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:           s.cfg.Addr,
		Handler:        s.Router(),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", s.cfg.Addr)

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), shutdownWaitSeconds*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}
