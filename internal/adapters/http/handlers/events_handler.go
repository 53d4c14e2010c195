package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/projectboard/internal/adapters/event"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

const defaultHeartbeat = 15 * time.Second

// SnapshotSource hands out change subscriptions. The returned channel yields
// a snapshot per change and is closed when the source shuts down.
type SnapshotSource interface {
	Subscribe(seed []project.Project) (<-chan []project.Project, func())
}

// EventsHandler streams collection snapshots as Server-Sent Events.
type EventsHandler struct {
	svc       ports.ProjectService
	source    SnapshotSource
	heartbeat time.Duration
	now       func() time.Time
}

// NewEventsHandler creates an EventsHandler. A non-positive heartbeat uses
// the default of 15s.
func NewEventsHandler(svc ports.ProjectService, source SnapshotSource, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventsHandler{
		svc:       svc,
		source:    source,
		heartbeat: heartbeat,
		now:       time.Now,
	}
}

// Stream handles GET /api/v1/projects/events. The current collection is sent
// first, then one "snapshot" event per change until the client disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	seed := h.svc.ListProjects(ctx)
	if seed == nil {
		seed = []project.Project{}
	}
	snapshots, cancel := h.source.Subscribe(seed)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "event stream unsupported",
			slog.String("operation", "EventsHandler.Stream"),
			slog.Any("error", err),
		)
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case projects, ok := <-snapshots:
			if !ok {
				return
			}
			if err := h.writeSnapshot(w, projects); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func (h *EventsHandler) writeSnapshot(w http.ResponseWriter, projects []project.Project) error {
	data, err := json.Marshal(event.NewSnapshot(projects, h.now()))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.TypeSnapshot, data)
	return err
}
