package errors

import (
	"SafetyAgents/impl/core"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/workflow"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Status maps a core or workflow error to an HTTP status and a client message.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, core.ErrNotHired):
		return http.StatusForbidden, "Agent is not hired"
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, core.ErrNotFound), errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, workflow.ErrStateConflict):
		return http.StatusConflict, "Conversation was updated by another request, please retry"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Session is busy, please retry"
	}
	return http.StatusInternalServerError, "Internal error"
}

// Render writes the error response; server errors are logged.
func Render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, message := Status(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", sl.Err(err))
	} else {
		logger.Debug("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, response.Error(message))
}

// BadRequest writes a 400 with the validation message.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(message))
}

func Unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("Unauthorized"))
}
