package ws

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/workflow"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	EventStepChanged         = "step_changed"
	EventAssessmentCompleted = "assessment_completed"
)

// Event is sent to dashboard clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	// owner scopes delivery; it is not serialized
	owner eventOwner
}

type eventOwner struct {
	userID       string
	companyID    string
	hiredAgentID string
}

type StepChange struct {
	Key          string          `json:"key"`
	UserID       string          `json:"user_id"`
	HiredAgentID string          `json:"hired_agent_id"`
	From         workflow.StepID `json:"from"`
	To           workflow.StepID `json:"to"`
}

type Completion struct {
	Key          string `json:"key"`
	UserID       string `json:"user_id"`
	HiredAgentID string `json:"hired_agent_id"`
	AssessmentID string `json:"assessment_id"`
}

// Hub keeps connected dashboard clients and fans workflow events out to them.
// It implements workflow.Listener.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With(sl.Module("ws.hub")),
	}
}

// Run is the hub's event loop. It returns when ctx is done and closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.send)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.With(sl.Err(err)).Warn("encode event")
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.accepts(event.owner) {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// publish never blocks a workflow turn; events are dropped when the buffer is full.
func (h *Hub) publish(event *Event) {
	select {
	case h.broadcast <- event:
	default:
		h.log.With(slog.String("type", event.Type)).Warn("event buffer full, dropping event")
	}
}

func ownerOf(state *entity.WorkflowState) eventOwner {
	return eventOwner{
		userID:       state.UserID,
		companyID:    state.CompanyID,
		hiredAgentID: state.HiredAgentID,
	}
}

func (h *Hub) StepChanged(state *entity.WorkflowState, from, to workflow.StepID) {
	h.publish(&Event{
		Type: EventStepChanged,
		Data: StepChange{
			Key:          state.Key,
			UserID:       state.UserID,
			HiredAgentID: state.HiredAgentID,
			From:         from,
			To:           to,
		},
		owner: ownerOf(state),
	})
}

func (h *Hub) WorkflowCompleted(state *entity.WorkflowState, resultID string) {
	h.publish(&Event{
		Type: EventAssessmentCompleted,
		Data: Completion{
			Key:          state.Key,
			UserID:       state.UserID,
			HiredAgentID: state.HiredAgentID,
			AssessmentID: resultID,
		},
		owner: ownerOf(state),
	})
}

type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage applies a message sent by a client. Clients may narrow
// their stream to one hired agent with {"type":"subscribe","data":{"hired_agent_id":"..."}}.
func (h *Hub) HandleClientMessage(c *Client, raw []byte) {
	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.log.With(sl.Err(err)).Warn("failed to parse client ws message")
		return
	}

	switch event.Type {
	case "subscribe":
		var data struct {
			HiredAgentID string `json:"hired_agent_id"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			h.log.With(sl.Err(err)).Warn("failed to parse subscribe data")
			return
		}
		h.mu.Lock()
		c.hiredAgentID = data.HiredAgentID
		h.mu.Unlock()
	default:
		h.log.With(slog.String("type", event.Type)).Debug("unknown client event")
	}
}
