package feed

import "time"

const (
	EventMonsters = "query.monsters"
	EventSpells   = "query.spells"
	EventMatch    = "query.match"
)

// QueryEvent describes one completed filter pass.
type QueryEvent struct {
	Type       string            `json:"type"`
	RequestID  string            `json:"request_id"`
	Transport  string            `json:"transport"` // "http" or "grpc"
	Params     map[string]string `json:"params,omitempty"`
	Predicates []string          `json:"predicates,omitempty"`
	Matched    int               `json:"matched"`
	Total      int               `json:"total"`
	At         time.Time         `json:"at"`
}

// Publisher receives query events. Implementations must not block the
// caller for long.
type Publisher interface {
	Publish(ev QueryEvent)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(QueryEvent) {}
