package authenticate

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/api/cont"
	"SafetyAgents/internal/lib/api/response"
	"SafetyAgents/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Authenticate interface {
	AuthenticateByToken(ctx context.Context, token string) (*entity.UserAuth, error)
}

// RequestLog logs every request with its outcome. Handlers may enrich the
// line through Enrich.
func RequestLog(log *slog.Logger) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.request")

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			remote := r.RemoteAddr
			// if the request is coming from a proxy, use the X-Forwarded-For header
			if xRemote := r.Header.Get("X-Forwarded-For"); xRemote != "" {
				remote = xRemote
			}
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remote),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			entry := &logEntry{logger: logger}
			defer func() {
				entry.logger.With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), logEntryKey{}, entry)))
		}
		return http.HandlerFunc(fn)
	}
}

type logEntryKey struct{}

type logEntry struct {
	logger *slog.Logger
}

// Enrich adds attributes to the request log line.
func Enrich(ctx context.Context, args ...any) {
	if entry, ok := ctx.Value(logEntryKey{}).(*logEntry); ok {
		entry.logger = entry.logger.With(args...)
	}
}

// New authenticates bearer tokens and stores the user in the request context.
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := ""
			header := r.Header.Get("Authorization")
			if len(header) == 0 {
				Enrich(r.Context(), sl.Err(fmt.Errorf("authorization header not found")))
				authFailed(w, r, "Authorization header not found")
				return
			}
			if after, ok := strings.CutPrefix(header, "Bearer "); ok {
				token = strings.TrimSpace(after)
			}
			if len(token) == 0 {
				Enrich(r.Context(), sl.Err(fmt.Errorf("token not found")))
				authFailed(w, r, "Token not found")
				return
			}
			Enrich(r.Context(), sl.Secret("token", token))

			if auth == nil {
				authFailed(w, r, "Unauthorized: authentication not enabled")
				return
			}

			user, err := auth.AuthenticateByToken(r.Context(), token)
			if err != nil {
				Enrich(r.Context(), sl.Err(err))
				authFailed(w, r, "Unauthorized: token not found")
				return
			}
			Enrich(r.Context(), slog.String("user", user.Username))

			w.Header().Set("X-User", user.Username)
			next.ServeHTTP(w, r.WithContext(cont.PutUser(r.Context(), user)))
		}

		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
