package entity

import "time"

// AgentTypeCoshh is the agent type of the COSHH assessment agent.
const AgentTypeCoshh = "coshh"

// HiredAgent is a subscription of a user or company to an agent.
type HiredAgent struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	CompanyID string    `json:"company_id,omitempty" bson:"company_id,omitempty"`
	AgentType string    `json:"agent_type" bson:"agent_type"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AllowedFor reports whether the user may talk to this agent.
func (h *HiredAgent) AllowedFor(user *UserAuth) bool {
	if h == nil || user == nil || !h.Active {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if h.UserID == user.UserID {
		return true
	}
	return h.CompanyID != "" && h.CompanyID == user.CompanyID
}
