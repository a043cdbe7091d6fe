package domain

import "time"

// EventType names a domain event consumed by the notification dispatcher.
type EventType string

const (
	EventQuestionSubmitted EventType = "QuestionSubmitted"
	EventQuestionDelivered EventType = "QuestionDelivered"
	EventQuestionEscalated EventType = "QuestionEscalated"
	EventCreditsGranted    EventType = "CreditsGranted"
	EventCreditsRevoked    EventType = "CreditsRevoked"
	EventAccountBanned     EventType = "AccountBanned"
)

// Event is emitted fire-and-forget after a committed mutation. The core never
// waits for delivery confirmation.
type Event struct {
	Type       EventType
	OccurredAt time.Time
	// Payload keys are documented per emitting site.
	Payload map[string]any
}
