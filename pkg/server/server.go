package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/storage"
	"github.com/raterudder/solarlog/pkg/types"
)

// Device is the polled device whose state the server exposes.
type Device interface {
	ID() string
	// Status is used when storage has no status for the device, e.g. when
	// writing it failed.
	Status() types.Status
}

// Server exposes the latest state of the device over HTTP.
type Server struct {
	device  Device
	storage storage.Database
	metrics http.Handler

	listenAddr string
	httpServer *http.Server
	serverName string
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(d Device, s storage.Database, metrics http.Handler) *Server {
	srv := &Server{
		device:     d,
		storage:    s,
		metrics:    metrics,
		serverName: "solarlog",
	}

	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
	})

	return srv
}

func (s *Server) setupHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("/healthz", s.handleHealthz)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return s.revisionMiddleware(s.securityHeadersMiddleware(gziphandler.GzipHandler(mux)))
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		// Context canceled, shut down gracefully
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

type stateResponse struct {
	DeviceID string               `json:"deviceID"`
	Status   types.Status         `json:"status"`
	Channels []types.ChannelState `json:"channels"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := s.device.ID()

	status, err := s.storage.GetStatus(ctx, deviceID)
	if errors.Is(err, storage.ErrNotFound) {
		status = s.device.Status()
	} else if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get status", slog.Any("error", err))
		writeJSONError(w, "failed to get status", http.StatusInternalServerError)
		return
	}
	channels, err := s.storage.GetChannelStates(ctx, deviceID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get channel states", slog.Any("error", err))
		writeJSONError(w, "failed to get channel states", http.StatusInternalServerError)
		return
	}
	if channels == nil {
		channels = []types.ChannelState{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stateResponse{
		DeviceID: deviceID,
		Status:   status,
		Channels: channels,
	}); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to write state response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	if s.serverName == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverName)
		next.ServeHTTP(w, r)
	})
}
