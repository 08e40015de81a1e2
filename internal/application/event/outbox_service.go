package event

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deadLetterBatch = 100

// OutboxService inspects the transactional outbox and requeues dead letters
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(repo shared.OutboxRepository, logger *zap.Logger) *OutboxService {
	return &OutboxService{
		repo:   repo,
		logger: logger,
	}
}

// OutboxEntryView is the read projection of an outbox entry
type OutboxEntryView struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	ActorID       string     `json:"actor_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// OutboxStats counts outbox entries per status
type OutboxStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Delivered  int64 `json:"delivered"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// DeadLetters lists the entries that exhausted their retries
func (s *OutboxService) DeadLetters(ctx context.Context, page, pageSize int) (*shared.Paginated[OutboxEntryView], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > deadLetterBatch {
		pageSize = deadLetterBatch
	}

	entries, total, err := s.repo.FindDead(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load dead letters: %w", err)
	}
	views := make([]OutboxEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toView(e))
	}
	result := shared.NewPaginated(views, total, page, pageSize)
	return &result, nil
}

// Retry requeues one dead letter
func (s *OutboxService) Retry(ctx context.Context, id uuid.UUID) (*OutboxEntryView, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Requeue(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to requeue outbox entry %s: %w", id, err)
	}

	s.logger.Info("dead letter requeued",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType),
	)
	view := toView(entry)
	return &view, nil
}

// RetryAll requeues every dead letter and returns how many were reset
func (s *OutboxService) RetryAll(ctx context.Context) (int64, error) {
	var count int64
	for {
		// requeued entries leave the dead set, so the first page is always next
		entries, _, err := s.repo.FindDead(ctx, 1, deadLetterBatch)
		if err != nil {
			return count, fmt.Errorf("failed to load dead letters: %w", err)
		}
		if len(entries) == 0 {
			break
		}
		for _, entry := range entries {
			if err := entry.Requeue(); err != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				return count, fmt.Errorf("failed to requeue outbox entry %s: %w", entry.ID, err)
			}
			count++
		}
		if len(entries) < deadLetterBatch {
			break
		}
	}

	s.logger.Info("dead letters requeued", zap.Int64("count", count))
	return count, nil
}

// Stats returns outbox entry counts per status
func (s *OutboxService) Stats(ctx context.Context) (*OutboxStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count outbox entries: %w", err)
	}
	stats := &OutboxStats{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Delivered:  counts[shared.OutboxStatusDelivered],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

func toView(e *shared.OutboxEntry) OutboxEntryView {
	return OutboxEntryView{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		ActorID:       e.ActorID,
		OccurredAt:    e.OccurredAt,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
	}
}
