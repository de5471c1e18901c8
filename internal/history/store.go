package history

import (
	"context"
	"time"
)

// Entry is one persisted topic/plan/diagram interaction.
// Entries are immutable once written and are never deleted.
type Entry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Plan      string    `json:"learning_plan"`
	SVG       string    `json:"svg_content,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// Store persists interaction history.
//
// Load returns all entries in insertion order; a missing or unreadable
// backing store loads as empty, never as an error. Append stamps the entry
// with a fresh id and the current time and returns the stored copy.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, prompt, plan, svg string) (Entry, error)
	Get(ctx context.Context, id string) (Entry, bool, error)
	Close() error
}
