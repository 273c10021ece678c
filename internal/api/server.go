// Package api exposes the session to foreground clients over a local HTTP
// interface: named actions, status polling and a server-sent event stream.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"worktime/internal/alarm"
	"worktime/internal/core/model"
	"worktime/internal/core/scheduler"
	"worktime/internal/core/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Workday is the session service behind the API.
type Workday interface {
	Dispatch(ctx context.Context, msg scheduler.Message) (session.Snapshot, error)
	Snapshot(ctx context.Context) (session.Snapshot, error)
	Settings() (model.Settings, error)
	UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error)
	ResetAll(ctx context.Context) error
	HandleAlertClick(ctx context.Context, id string)
	HandleAlertAction(ctx context.Context, id string, index int) error
}

// Snapshots publishes periodic session snapshots.
type Snapshots interface {
	Subscribe(buffer int) <-chan session.Snapshot
	Unsubscribe(events <-chan session.Snapshot)
}

// AlarmLister lists pending alarms.
type AlarmLister interface {
	Pending() []alarm.Pending
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	workday   Workday
	snapshots Snapshots
	alarms    AlarmLister
	router    chi.Router
}

// New creates a Server with all routes configured.
func New(workday Workday, snapshots Snapshots, alarms AlarmLister) *Server {
	s := &Server{
		workday:   workday,
		snapshots: snapshots,
		alarms:    alarms,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/actions", s.handleAction)
		r.Get("/status", s.handleStatus)
		r.Get("/status/stream", s.handleStatusStream)
		r.Get("/alarms", s.handleAlarms)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Post("/reset-all", s.handleResetAll)
		r.Post("/alerts/{id}/click", s.handleAlertClick)
		r.Post("/alerts/{id}/actions/{index}", s.handleAlertAction)
	})
}

// Serve runs the API on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", listener.Addr().String()).Msg("API listening")
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("API stopped")
	return nil
}
