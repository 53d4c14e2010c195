package ports

import (
	"context"

	"github.com/jsamuelsen11/projectboard/internal/domain/project"
)

// Listener is invoked synchronously after every change to the project
// collection. projects is an independent snapshot in insertion order; the
// listener may keep or modify it freely.
//
// Listeners run while the store is mid-change. Reads and AddListener are
// safe from a listener, but reads still report the collection before the
// change; the projects argument is the current state. Calling AddProject on
// the same store with ctx panics instead of deadlocking; with any other
// context it blocks forever. Slow work should be handed off (queued)
// rather than done inline.
type Listener func(ctx context.Context, projects []project.Project)

// ProjectStore holds the ordered, append-only collection of projects and the
// listeners notified when it changes. One instance is shared by the whole
// process.
type ProjectStore interface {
	// AddProject builds a new project (fresh ID, Completed=false), appends it,
	// and notifies every listener in registration order with a snapshot.
	// Returns a copy of the appended project. No validation is performed.
	AddProject(ctx context.Context, title string, people int, description string) project.Project

	// AddListener registers fn at the end of the listener list. The same
	// listener may be registered more than once and is then invoked once per
	// registration. Listeners cannot be removed.
	AddListener(fn Listener)

	// Projects returns a snapshot of the collection in insertion order.
	Projects() []project.Project

	// Len returns the number of projects in the collection.
	Len() int
}
