// Package event defines the JSON envelope shared by every outbound change
// notification: webhook bodies, NATS messages and SSE frames.
package event

import (
	"time"

	"github.com/jsamuelsen11/projectboard/internal/domain/project"
)

// Event types.
const (
	TypeSnapshot = "snapshot"
	TypeAdded    = "added"
)

// Record is the wire shape of a project.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	People      int    `json:"people"`
	Completed   bool   `json:"completed"`
}

// Snapshot carries the whole collection after a change.
type Snapshot struct {
	Type       string    `json:"type"`
	Count      int       `json:"count"`
	Projects   []Record  `json:"projects"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Added carries only the newest project.
type Added struct {
	Type       string    `json:"type"`
	Project    Record    `json:"project"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromProject converts a domain project to its wire shape.
func FromProject(p project.Project) Record {
	return Record{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		People:      p.People,
		Completed:   p.Completed,
	}
}

// NewSnapshot builds a snapshot envelope. Projects is never nil so it
// encodes as [] for an empty collection.
func NewSnapshot(projects []project.Project, at time.Time) Snapshot {
	records := make([]Record, len(projects))
	for i, p := range projects {
		records[i] = FromProject(p)
	}
	return Snapshot{
		Type:       TypeSnapshot,
		Count:      len(records),
		Projects:   records,
		OccurredAt: at.UTC(),
	}
}

// NewAdded builds the envelope for the last project in projects. ok is false
// when projects is empty.
func NewAdded(projects []project.Project, at time.Time) (Added, bool) {
	if len(projects) == 0 {
		return Added{}, false
	}
	return Added{
		Type:       TypeAdded,
		Project:    FromProject(projects[len(projects)-1]),
		OccurredAt: at.UTC(),
	}, true
}
