package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the delivery state of a recorded domain event
type OutboxStatus string

const (
	// OutboxStatusPending is written in the same transaction as the aggregate
	OutboxStatusPending OutboxStatus = "pending"
	// OutboxStatusProcessing is claimed by a processor
	OutboxStatusProcessing OutboxStatus = "processing"
	// OutboxStatusDelivered means every subscribed handler succeeded
	OutboxStatusDelivered OutboxStatus = "delivered"
	// OutboxStatusFailed waits for NextRetryAt
	OutboxStatusFailed OutboxStatus = "failed"
	// OutboxStatusDead exhausted its attempts and waits for a manual requeue
	OutboxStatusDead OutboxStatus = "dead"
)

// OutboxRetryPolicy bounds the redelivery of an event whose handlers failed.
// The delay doubles per attempt from BaseBackoff and is capped at MaxBackoff.
type OutboxRetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultOutboxRetryPolicy returns 5 attempts backing off from 1s up to 5m
func DefaultOutboxRetryPolicy() OutboxRetryPolicy {
	return OutboxRetryPolicy{
		MaxAttempts: 5,
		BaseBackoff: time.Second,
		MaxBackoff:  5 * time.Minute,
	}
}

// Delay returns the wait before the given (1-based) retry attempt
func (p OutboxRetryPolicy) Delay(attempt int) time.Duration {
	base := p.BaseBackoff
	if base <= 0 {
		base = time.Second
	}
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// OutboxEntry is a domain event recorded for at-least-once delivery to the
// event handlers (reconciliation, inventory posting, audit)
type OutboxEntry struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	ActorID       string
	OccurredAt    time.Time
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOutboxEntry records an encoded event as pending.
// maxAttempts <= 0 uses the default policy.
func NewOutboxEntry(event DomainEvent, payload []byte, maxAttempts int) *OutboxEntry {
	if maxAttempts <= 0 {
		maxAttempts = DefaultOutboxRetryPolicy().MaxAttempts
	}
	ts := now()
	return &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		ActorID:       event.ActorID(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    maxAttempts,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
}

// MarkDelivered records a successful delivery
func (e *OutboxEntry) MarkDelivered() {
	ts := now()
	e.Status = OutboxStatusDelivered
	e.ProcessedAt = &ts
	e.NextRetryAt = nil
	e.UpdatedAt = ts
}

// MarkFailed counts a failed delivery. The entry is scheduled for another
// attempt after the policy delay, or goes dead once MaxRetries is reached.
func (e *OutboxEntry) MarkFailed(cause string, policy OutboxRetryPolicy) {
	ts := now()
	e.RetryCount++
	e.LastError = cause
	e.UpdatedAt = ts

	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		e.NextRetryAt = nil
		return
	}
	e.Status = OutboxStatusFailed
	next := ts.Add(policy.Delay(e.RetryCount))
	e.NextRetryAt = &next
}

// Requeue moves a dead entry back to pending with a fresh attempt budget
func (e *OutboxEntry) Requeue() error {
	if e.Status != OutboxStatusDead {
		return NewGuardError("OUTBOX_NOT_DEAD",
			fmt.Sprintf("Only dead outbox entries can be requeued, entry is %s", e.Status))
	}
	e.Status = OutboxStatusPending
	e.RetryCount = 0
	e.LastError = ""
	e.NextRetryAt = nil
	e.UpdatedAt = now()
	return nil
}

// IsDead reports whether the entry exhausted its attempts
func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// OutboxRepository stores outbox entries
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindRetryable returns failed entries whose NextRetryAt is not after before
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	FindDead(ctx context.Context, page, pageSize int) ([]*OutboxEntry, int64, error)
	// MarkProcessing claims the pending or failed entries among ids and returns them
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeleteOlderThan removes delivered entries processed before the given time
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}
