package authenticate

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/api/cont"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAuth struct{}

func (fakeAuth) AuthenticateByToken(_ context.Context, token string) (*entity.UserAuth, error) {
	if token == "good" {
		return &entity.UserAuth{UserID: "u1", Username: "alice", Token: token}, nil
	}
	return nil, errors.New("unknown")
}

func TestNew(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seen *entity.UserAuth
	h := RequestLog(log)(New(log, fakeAuth{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = cont.GetUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	if assert.NotNil(t, seen) {
		assert.Equal(t, "alice", seen.Username)
	}
}
