package assessment

import (
	apierr "SafetyAgents/internal/http-server/handlers/errors"
	"SafetyAgents/internal/lib/api/cont"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Export returns a signed, expiring link to download the assessment.
func Export(log *slog.Logger, handler Core) http.HandlerFunc {
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

		url, err := handler.ExportURL(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(map[string]string{"url": url}))
	}
}

// Download serves the assessment behind a signed link as a JSON attachment.
// The route is not bearer authenticated; the signature is the credential.
func Download(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.assessment"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		q := r.URL.Query()
		assessment, err := handler.ExportAssessment(r.Context(), id, q.Get("expires"), q.Get("sig"))
		if err != nil {
			apierr.Render(w, r, logger, err)
			return
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="coshh-assessment-%s.json"`, id))
		render.JSON(w, r, assessment)
	}
}
