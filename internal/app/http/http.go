package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/oxygenesis/signchain/internal/app/http/handler"
	"github.com/oxygenesis/signchain/internal/app/http/middleware"
	"github.com/oxygenesis/signchain/internal/config"
	"github.com/oxygenesis/signchain/internal/service"
	"github.com/oxygenesis/signchain/pkg/id"
)

func defaultListenAndServe(srv *http.Server) error { return srv.ListenAndServe() }

var listenAndServe = defaultListenAndServe

// Start assembles the server and serves until ctx is cancelled, then shuts
// down gracefully. If test==true it returns without serving (for coverage/CI).
func Start(ctx context.Context, cfg config.ServerConfig, svc *service.DeviceService, log *logrus.Entry, test bool) error {
	srv := buildServer(cfg, svc, log)
	if test {
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Listen).Info("listening")
		errCh <- listenAndServe(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	serveErr := <-errCh
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}
	return multierr.Combine(shutdownErr, serveErr)
}

// NewHandler returns the routed handler tree for svc. Request id, access log
// and recovery wrap the whole router, so unmatched routes and panics are
// traced too.
func NewHandler(svc *service.DeviceService, log *logrus.Entry) http.Handler {
	h := handler.NewDevice(svc, log)

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/v1/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/v1/devices", h.List).Methods(http.MethodGet)
	r.HandleFunc("/v1/devices", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/v1/devices/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/v1/devices/{id}", h.UpdateLabel).Methods(http.MethodPatch)
	r.HandleFunc("/v1/devices/{id}/sign", h.Sign).Methods(http.MethodPost)
	r.HandleFunc("/v1/devices/{id}/verify", h.Verify).Methods(http.MethodPost)

	withRecovery := middleware.Recovery(log, r)
	withAccessLog := middleware.AccessLog(log.WithField("context", "access"))(withRecovery)
	return middleware.RequestID(id.UUIDv4{})(withAccessLog)
}

// buildServer is kept package-private so tests can exercise routes without binding a port.
func buildServer(cfg config.ServerConfig, svc *service.DeviceService, log *logrus.Entry) *http.Server {
	return &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewHandler(svc, log),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
	}
}
