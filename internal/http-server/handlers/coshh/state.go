package coshh

import (
	apierr "SafetyAgents/internal/http-server/handlers/errors"
	"SafetyAgents/internal/lib/api/cont"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func GetState(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.coshh"),
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

		state, err := handler.State(r.Context(), user, hiredAgentID)
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(state))
	}
}

// ResetState discards the conversation so the next turn starts a new assessment.
func ResetState(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.coshh"),
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

		if err = handler.ResetState(r.Context(), user, hiredAgentID); err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		logger.With(slog.String("hired_agent_id", hiredAgentID)).Info("conversation reset")
		render.JSON(w, r, response.Ok(nil))
	}
}
