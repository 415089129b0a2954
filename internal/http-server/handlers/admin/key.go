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

type KeyRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	Username  string `json:"username" validate:"required"`
	CompanyID string `json:"company_id" validate:"omitempty"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (k *KeyRequest) Bind(_ *http.Request) error {
	return validate.Struct(k)
}

func GenerateKey(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req KeyRequest
		if err = render.Bind(r, &req); err != nil {
			apierr.BadRequest(w, r, err.Error())
			return
		}

		key, err := handler.GenerateApiKey(r.Context(), user, entity.UserAuth{
			UserID:    req.UserID,
			Username:  req.Username,
			CompanyID: req.CompanyID,
			Role:      req.Role,
		})
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(map[string]string{"key": key}))
	}
}
