package admin

import (
	"SafetyAgents/entity"
	apierr "SafetyAgents/internal/http-server/handlers/errors"
	"SafetyAgents/internal/lib/api/cont"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/internal/lib/validate"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type HireRequest struct {
	ID        string `json:"id" validate:"omitempty"`
	UserID    string `json:"user_id" validate:"required"`
	CompanyID string `json:"company_id" validate:"omitempty"`
	AgentType string `json:"agent_type" validate:"omitempty,oneof=coshh"`
	Active    *bool  `json:"active" validate:"omitempty"`
}

func (h *HireRequest) Bind(_ *http.Request) error {
	return validate.Struct(h)
}

// Hire creates or updates a hired agent. Admin only.
func Hire(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.admin"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			apierr.Unauthorized(w, r)
			return
		}

		var req HireRequest
		if err = render.Bind(r, &req); err != nil {
			apierr.BadRequest(w, r, err.Error())
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}

		agent, err := handler.HireAgent(r.Context(), user, entity.HiredAgent{
			ID:        req.ID,
			UserID:    req.UserID,
			CompanyID: req.CompanyID,
			AgentType: req.AgentType,
			Active:    active,
		})
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}

		logger.With(
			slog.String("hired_agent_id", agent.ID),
			slog.Bool("active", agent.Active),
		).Info("agent hired")
		render.JSON(w, r, response.Ok(agent))
	}
}

// ListAgents returns the agents hired by the caller or the caller's company.
func ListAgents(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.admin"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			apierr.Unauthorized(w, r)
			return
		}

		agents, err := handler.ListHiredAgents(r.Context(), user)
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(agents))
	}
}
