package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/erp/procurement/internal/domain/shared"
)

// EventFactory returns an empty event ready to be decoded into
type EventFactory func() shared.DomainEvent

// EventSerializer encodes procurement events for the outbox and decodes them
// back into their concrete types. Only event types raised by the procurement
// aggregates can be registered.
type EventSerializer struct {
	mu        sync.RWMutex
	allowed   map[string]struct{}
	factories map[string]EventFactory
}

// NewEventSerializer creates a serializer that accepts the procurement event set
func NewEventSerializer() *EventSerializer {
	allowed := make(map[string]struct{})
	for _, t := range ProcurementEventTypes() {
		allowed[t] = struct{}{}
	}
	return &EventSerializer{
		allowed:   allowed,
		factories: make(map[string]EventFactory),
	}
}

// Register binds event types to the factory that decodes them.
// Types outside the procurement set and duplicates are rejected.
func (s *EventSerializer) Register(factory EventFactory, eventTypes ...string) error {
	if factory == nil {
		return errors.New("event factory is nil")
	}
	if len(eventTypes) == 0 {
		return errors.New("no event types given")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range eventTypes {
		if strings.TrimSpace(t) == "" {
			return errors.New("event type is blank")
		}
		if _, ok := s.allowed[t]; !ok {
			return fmt.Errorf("event type %s is not a procurement event", t)
		}
		if _, dup := s.factories[t]; dup {
			return fmt.Errorf("event type %s is already registered", t)
		}
	}
	for _, t := range eventTypes {
		s.factories[t] = factory
	}
	return nil
}

// Serialize encodes a registered event as JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	if _, ok := s.factory(event.EventType()); !ok {
		return nil, fmt.Errorf("unknown event type: %s", event.EventType())
	}
	return json.Marshal(event)
}

// Deserialize decodes an outbox payload into its registered event type
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	factory, ok := s.factory(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	if event.EventType() != eventType {
		return nil, fmt.Errorf("payload carries event type %q, expected %s", event.EventType(), eventType)
	}
	return event, nil
}

// RegisteredTypes returns the registered event types in order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (s *EventSerializer) factory(eventType string) (EventFactory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.factories[eventType]
	return f, ok
}
