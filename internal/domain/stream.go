package domain

import (
	"time"

	"github.com/google/uuid"
)

// StreamIndexRefresh - default stream the engine publishes to after a new dataset build
const StreamIndexRefresh = "stream:ais:index:refresh"

// IndexRefreshEvent - request to reload the snapshot and publish a new index generation
type IndexRefreshEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     string    `json:"version,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// StreamMessage - raw message read from a Redis stream
type StreamMessage struct {
	ID   string
	Data string
}
