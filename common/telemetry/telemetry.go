package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/lyzr/roster/common/logger"
)

// Telemetry serves pprof on a loopback port
type Telemetry struct {
	log    *logger.Logger
	server *http.Server
}

// New creates telemetry components
func New(pprofPort int, log *logger.Logger) *Telemetry {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &Telemetry{
		log: log,
		server: &http.Server{
			Addr:              fmt.Sprintf("localhost:%d", pprofPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Addr returns the listen address
func (t *Telemetry) Addr() string {
	return t.server.Addr
}

// Start starts the pprof server in the background
func (t *Telemetry) Start(ctx context.Context) error {
	go func() {
		t.log.Info("pprof server starting", "addr", t.server.Addr)
		if err := t.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.log.Error("pprof server error", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the pprof server
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.server.Shutdown(ctx)
}

