package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventCollectionInvalidated asks every screen showing the session's
	// customer collection to fetch it again.
	EventCollectionInvalidated EventType = "collection_invalidated"
	EventCustomerDeleted       EventType = "customer_deleted"
	EventCustomersImported     EventType = "customers_imported"
	EventSessionEnded          EventType = "session_ended"
)

// Event represents a screen event.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a new event for the given session.
func NewEvent(eventType EventType, sessionID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// CollectionInvalidatedPayload payload.
type CollectionInvalidatedPayload struct {
	Reason string `json:"reason"`
}

// CustomerDeletedPayload payload.
type CustomerDeletedPayload struct {
	CustomerID string `json:"customer_id"`
	Message    string `json:"message,omitempty"`
}

// CustomersImportedPayload payload.
type CustomersImportedPayload struct {
	FileName  string `json:"file_name"`
	SizeBytes int    `json:"size_bytes"`
}
