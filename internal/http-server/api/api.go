package api

import (
	"SafetyAgents/internal/config"
	"SafetyAgents/internal/http-server/handlers/admin"
	"SafetyAgents/internal/http-server/handlers/assessment"
	"SafetyAgents/internal/http-server/handlers/coshh"
	"SafetyAgents/internal/http-server/handlers/errors"
	"SafetyAgents/internal/http-server/handlers/reference"
	"SafetyAgents/internal/http-server/middleware/authenticate"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/internal/ws"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	coshh.Core
	assessment.Core
	reference.Core
	admin.Core
}

// NewRouter builds the API routes. hub may be nil when dashboards are disabled.
func NewRouter(log *slog.Logger, handler Handler, hub *ws.Hub, requestTimeout time.Duration) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(authenticate.RequestLog(log))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		if hub != nil {
			v1.Get("/ws", ws.ServeWs(hub, handler, log))
		}

		v1.Group(func(v1 chi.Router) {
			v1.Use(render.SetContentType(render.ContentTypeJSON))
			if requestTimeout > 0 {
				v1.Use(middleware.Timeout(requestTimeout))
			}

			// the signature in the query authorizes the download
			v1.Get("/files/assessments/{id}", assessment.Download(log, handler))

			v1.Group(func(r chi.Router) {
				r.Use(authenticate.New(log, handler))

				r.Route("/coshh", func(r chi.Router) {
					r.Post("/turn", coshh.Turn(log, handler))
					r.Get("/state", coshh.GetState(log, handler))
					r.Delete("/state", coshh.ResetState(log, handler))
				})
				r.Route("/assessments", func(r chi.Router) {
					r.Get("/", assessment.List(log, handler))
					r.Get("/{id}", assessment.Get(log, handler))
					r.Get("/{id}/export", assessment.Export(log, handler))
				})
				r.Route("/reference", func(r chi.Router) {
					r.Get("/statement/{code}", reference.Statement(log, handler))
					r.Get("/hazard/{code}", reference.Statement(log, handler))
					r.Get("/process", reference.ProcessHazards(log, handler))
					r.Get("/surveillance", reference.Surveillance(log, handler))
				})
				r.Route("/agents", func(r chi.Router) {
					r.Get("/", admin.ListAgents(log, handler))
					r.Post("/", admin.Hire(log, handler))
				})
				r.Post("/keys", admin.GenerateKey(log, handler))
			})
		})
	})

	return router
}

// New starts the API server and blocks until ctx is done or the listener fails.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	// a turn may wait for the session lock and then for two collaborator calls
	requestTimeout := conf.Workflow.CollaboratorTimeout*2 + conf.Workflow.LockTimeout

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(log, handler, hub, requestTimeout),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.httpServer.Shutdown(shutdownCtx)
	}()

	server.log.Info("starting api server", slog.String("address", serverAddress))

	err = server.httpServer.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
