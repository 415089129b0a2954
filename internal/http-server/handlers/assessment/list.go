package assessment

import (
	apierr "SafetyAgents/internal/http-server/handlers/errors"
	"SafetyAgents/internal/lib/api/cont"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.assessment"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			apierr.Unauthorized(w, r)
			return
		}
		hiredAgentID := r.URL.Query().Get("hired_agent_id")
		if hiredAgentID == "" {
			apierr.BadRequest(w, r, "hired_agent_id is required")
			return
		}

		assessments, err := handler.ListAssessments(r.Context(), user, hiredAgentID)
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}

		logger.Debug("assessments listed", slog.Int("count", len(assessments)))
		render.JSON(w, r, response.Ok(assessments))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.assessment"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			apierr.Unauthorized(w, r)
			return
		}

		assessment, err := handler.GetAssessment(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(assessment))
	}
}
