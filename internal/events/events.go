package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "paper-service"
	EventVersion = "1.0"
)

// Event types
const (
	CourseCreated = "course.created"
	CourseUpdated = "course.updated"
	CourseDeleted = "course.deleted"

	QuestionCreated = "question.created"
	QuestionUpdated = "question.updated"
	QuestionDeleted = "question.deleted"

	PaperCreated  = "paper.created"
	PaperUpdated  = "paper.updated"
	PaperDeleted  = "paper.deleted"
	PaperExported = "paper.exported"
)

type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// EntityEvent is the payload of every create/update/delete event.
type EntityEvent struct {
	ID      uint   `json:"id"`
	ActorID *uint  `json:"actorId,omitempty"`
	Summary string `json:"summary,omitempty"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
