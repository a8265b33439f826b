package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
)

// decodeRequest re-decodes a raw body into a typed request; type mismatches
// come back as ValidationErrors.
func decodeRequest[R any](body map[string]json.RawMessage) (*R, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req := new(R)
	if err := json.Unmarshal(raw, req); err != nil {
		return nil, validator.FromDecodeError(err)
	}
	return req, nil
}

// mergeBody overlays the writable keys of patch onto the JSON form of base.
// Keys listed in omit are removed from the base first.
func mergeBody(base any, patch map[string]json.RawMessage, fields ResourceFields, omit ...string) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to encode current state: %w", err)
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, fmt.Errorf("failed to decode current state: %w", err)
	}
	for _, key := range omit {
		delete(merged, key)
	}
	for key, value := range patch {
		if fields.IsWritable(key) {
			merged[key] = value
		}
	}
	return merged, nil
}

// checkComplete validates a PUT body on its own so required fields must be
// sent even though omitted optional fields keep their stored values.
func checkComplete[R any](body map[string]json.RawMessage, validate func(*R) ValidationErrors) error {
	req, err := decodeRequest[R](body)
	if err != nil {
		return err
	}
	if errs := validate(req); len(errs) > 0 {
		return errs
	}
	return nil
}

func nonNilMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// eventEmitter publishes domain events; failures are logged, never returned.
type eventEmitter struct {
	publisher events.EventPublisher
	observe   func(eventType string, err error)
	logger    *slog.Logger
}

func (e *eventEmitter) emit(ctx context.Context, eventType string, id uint, actorID *uint, summary string) {
	if e == nil || e.publisher == nil {
		return
	}
	err := e.publisher.Publish(ctx, events.NewEvent(eventType, events.EntityEvent{
		ID:      id,
		ActorID: actorID,
		Summary: summary,
	}))
	if e.observe != nil {
		e.observe(eventType, err)
	}
	if err != nil {
		e.logger.Warn("Failed to publish event", "event_type", eventType, "entity_id", id, "error", err)
	}
}
