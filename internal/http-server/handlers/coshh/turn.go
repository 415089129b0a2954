package coshh

import (
	"SafetyAgents/entity"
	apierr "SafetyAgents/internal/http-server/handlers/errors"
	"SafetyAgents/internal/lib/api/cont"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Turn posts one user message, callback or document to the COSHH agent.
func Turn(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.coshh")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			apierr.Unauthorized(w, r)
			return
		}

		var turn entity.HttpTurn
		if err = render.Bind(r, &turn); err != nil {
			logger.Debug("invalid turn", sl.Err(err))
			apierr.BadRequest(w, r, err.Error())
			return
		}
		logger = logger.With(slog.String("hired_agent_id", turn.HiredAgentID))

		result, err := handler.Turn(r.Context(), user, &turn)
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("step", string(result.Step))).Debug("turn processed")
		render.JSON(w, r, response.Ok(result))
	}
}
