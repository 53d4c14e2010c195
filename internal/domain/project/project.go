// Package project defines the tracked Project record, its factory, and the
// field policy applied to user-submitted input before a record is created.
package project

import (
	"github.com/google/uuid"
)

// Project is one tracked item. ID and Title never change once the record has
// been appended to the store.
type Project struct {
	ID          string
	Title       string
	Description string
	People      int
	Completed   bool
}

// IDGenerator produces record identities. Uniqueness only needs to hold for
// the lifetime of the process.
type IDGenerator func() string

// DefaultIDGenerator returns random UUID v4 strings.
func DefaultIDGenerator() string {
	return uuid.NewString()
}

// New builds a Project with a freshly generated ID. An empty description is
// kept as empty text and Completed always starts false. New performs no
// validation; callers run Input.Validate first.
//
// A nil newID falls back to DefaultIDGenerator.
func New(title string, people int, description string, newID IDGenerator) Project {
	if newID == nil {
		newID = DefaultIDGenerator
	}
	return Project{
		ID:          newID(),
		Title:       title,
		Description: description,
		People:      people,
		Completed:   false,
	}
}
