package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "DOCUMENT_EMBEDDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeDocumentEmbedded = "DOCUMENT_EMBEDDED"
	TypeTestGenerated    = "TEST_GENERATED"
	TypeTestGraded       = "TEST_GRADED"
)

func NewDocumentEmbeddedEvent(documentId, documentName string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentEmbedded,
		Data: map[string]interface{}{
			"document_id":   documentId,
			"document_name": documentName,
			"chunk_count":   chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewTestGeneratedEvent(testId, documentId string, questionCount int) Event {
	return BaseEvent{
		Type: TypeTestGenerated,
		Data: map[string]interface{}{
			"test_id":        testId,
			"document_id":    documentId,
			"question_count": questionCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewTestGradedEvent(testId, userId string, score float64) Event {
	return BaseEvent{
		Type: TypeTestGraded,
		Data: map[string]interface{}{
			"test_id": testId,
			"user_id": userId,
			"score":   score,
		},
		OccurredAt: time.Now(),
	}
}
