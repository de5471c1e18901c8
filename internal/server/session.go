package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stage tracks where a session is in the topic -> questions -> plan flow.
type Stage int

const (
	// StageInitial is a session that exists but has not asked its
	// clarifying questions yet.
	StageInitial Stage = iota
	// StageQuestioning means questions were generated and the session is
	// waiting for the user's answers.
	StageQuestioning
	// StageDisplay means a plan and diagram were produced.
	StageDisplay
)

func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageQuestioning:
		return "questioning"
	case StageDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// Session holds the per-user conversation state.
type Session struct {
	ID        string
	Stage     Stage
	Topic     string
	Questions []string
	Answers   []string
	Plan      string
	SVG       string
	EntryID   string
	CreatedAt time.Time
}

// sessionRegistry is an in-memory session store. Sessions are cheap and the
// flow is short-lived, so there is no eviction beyond process restart.
// Reads return copies; mutation goes through update so handlers never touch
// a session outside the lock.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*Session)}
}

func (r *sessionRegistry) create(topic string, questions []string) Session {
	s := &Session{
		ID:        uuid.New().String(),
		Stage:     StageQuestioning,
		Topic:     topic,
		Questions: questions,
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return *s
}

func (r *sessionRegistry) get(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

func (r *sessionRegistry) update(id string, fn func(*Session)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	fn(s)
	return true
}
