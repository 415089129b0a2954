package reference

import (
	apierr "SafetyAgents/internal/http-server/handlers/errors"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Statement looks up an H-code or P-code.
func Statement(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(sl.Module("http.handlers.reference"))

		code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
		var data interface{}
		var err error
		switch {
		case strings.HasPrefix(code, "H") || strings.HasPrefix(code, "EUH"):
			data, err = handler.HazardStatement(code)
		case strings.HasPrefix(code, "P"):
			data, err = handler.PrecautionaryStatement(code)
		default:
			apierr.BadRequest(w, r, "code must be an H-code or a P-code")
			return
		}
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(data))
	}
}

func ProcessHazards(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(handler.ProcessHazards(r.URL.Query().Get("q"))))
	}
}

func Surveillance(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(sl.Module("http.handlers.reference"))

		name := r.URL.Query().Get("name")
		cas := r.URL.Query().Get("cas")
		if name == "" && cas == "" {
			apierr.BadRequest(w, r, "name or cas is required")
			return
		}

		req, err := handler.Surveillance(name, cas)
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(req))
	}
}
