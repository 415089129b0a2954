package ws

import (
	"SafetyAgents/entity"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type tokenAuth map[string]*entity.UserAuth

func (a tokenAuth) AuthenticateByToken(_ context.Context, token string) (*entity.UserAuth, error) {
	if u, ok := a[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

var testUsers = tokenAuth{
	"alice": {UserID: "u1", Username: "alice", Role: entity.UserRole, Token: "alice"},
	"bob":   {UserID: "u2", Username: "bob", Role: entity.UserRole, Token: "bob"},
	"root":  {UserID: "admin", Username: "admin", Role: entity.AdminRole, Token: "root"},
}

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc, chan struct{}) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	srv := httptest.NewServer(ServeWs(hub, testUsers, log))
	return hub, srv, cancel, stopped
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestHub_DeliversScopedEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, srv, cancel, stopped := startHub(t)

	aliceConn := dial(t, srv, "token=alice")
	bobConn := dial(t, srv, "token=bob")
	adminConn := dial(t, srv, "token=root")
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	hub.StepChanged(state, "upload_sds", "confirm_hazard")
	hub.WorkflowCompleted(state, "x1")

	event := readEvent(t, aliceConn)
	assert.Equal(t, EventStepChanged, event["type"])
	data := event["data"].(map[string]interface{})
	assert.Equal(t, "confirm_hazard", data["to"])

	event = readEvent(t, aliceConn)
	assert.Equal(t, EventAssessmentCompleted, event["type"])
	assert.Equal(t, "x1", event["data"].(map[string]interface{})["assessment_id"])

	event = readEvent(t, adminConn)
	assert.Equal(t, EventStepChanged, event["type"])

	// bob is not the owner and receives nothing
	require.NoError(t, bobConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := bobConn.ReadMessage()
	assert.Error(t, err)

	cancel()
	<-stopped
	srv.Close()
	_ = aliceConn.Close()
	_ = bobConn.Close()
	_ = adminConn.Close()
}

func TestHub_Subscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, srv, cancel, stopped := startHub(t)

	conn := dial(t, srv, "token=alice")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"subscribe","data":{"hired_agent_id":"a2"}}`)))
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for c := range hub.clients {
			return c.hiredAgentID == "a2"
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	hub.StepChanged(entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds"), "upload_sds", "confirm_hazard")
	hub.StepChanged(entity.NewWorkflowState("u1", "", "a2", "coshh", "upload_sds"), "upload_sds", "usage_details")

	event := readEvent(t, conn)
	assert.Equal(t, "usage_details", event["data"].(map[string]interface{})["to"])

	cancel()
	<-stopped
	srv.Close()
	_ = conn.Close()
}

func TestServeWs_Unauthorized(t *testing.T) {
	_, srv, cancel, stopped := startHub(t)
	defer func() {
		cancel()
		<-stopped
		srv.Close()
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=nobody"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
