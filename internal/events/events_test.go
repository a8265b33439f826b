package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(PaperCreated, EntityEvent{ID: 3})

	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}
	if event.Source != "paper-service" {
		t.Errorf("Expected source 'paper-service', got '%s'", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Expected version '1.0', got '%s'", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Event timestamp should not be zero")
	}
}

func TestWatermillPublisher_DeliversJSONMessages(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	publisher := NewPublisherFrom(pubSub, "paper-service", testLogger())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "paper-service.question.updated")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	sent := NewEvent(QuestionUpdated, EntityEvent{ID: 42})
	if err := publisher.Publish(ctx, sent); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != sent.ID {
			t.Errorf("Expected message UUID %s, got %s", sent.ID, msg.UUID)
		}
		if got := msg.Metadata.Get("event_type"); got != QuestionUpdated {
			t.Errorf("Expected event_type metadata %s, got %s", QuestionUpdated, got)
		}

		var received struct {
			Type string      `json:"type"`
			Data EntityEvent `json:"data"`
		}
		if err := json.Unmarshal(msg.Payload, &received); err != nil {
			t.Fatalf("Failed to decode payload: %v", err)
		}
		if received.Type != QuestionUpdated || received.Data.ID != 42 {
			t.Errorf("Unexpected payload: %+v", received)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for message")
	}
}

func TestWatermillPublisher_Topic(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"paper-service", "paper-service.course.deleted"},
		{"", "course.deleted"},
	}
	for _, tt := range tests {
		p := &WatermillPublisher{topicPrefix: tt.prefix}
		if got := p.Topic(CourseDeleted); got != tt.want {
			t.Errorf("Topic() with prefix %q = %s, want %s", tt.prefix, got, tt.want)
		}
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	t.Run("RecordsEvents", func(t *testing.T) {
		_ = mock.Publish(ctx, NewEvent(CourseCreated, nil))
		_ = mock.Publish(ctx, NewEvent(CourseDeleted, nil))
		if got := len(mock.GetPublishedEvents()); got != 2 {
			t.Fatalf("Expected 2 events, got %d", got)
		}
		mock.ClearEvents()
		if got := len(mock.GetPublishedEvents()); got != 0 {
			t.Fatalf("Expected no events after clear, got %d", got)
		}
	})

	t.Run("FailWith", func(t *testing.T) {
		boom := errors.New("broker down")
		mock.FailWith(boom)
		defer mock.FailWith(nil)
		if err := mock.Publish(ctx, NewEvent(PaperDeleted, nil)); !errors.Is(err, boom) {
			t.Fatalf("Expected injected error, got %v", err)
		}
	})
}
