package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/redis/go-redis/v9"
)

// DefaultSequenceKeyTTL keeps a day's counter around past midnight in every timezone
const DefaultSequenceKeyTTL = 48 * time.Hour

// RedisSequenceCounter allocates document numbers with INCR on seq:<TYPE>:<YYYYMMDD>
type RedisSequenceCounter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSequenceCounter creates a counter; a non-positive ttl uses DefaultSequenceKeyTTL
func NewRedisSequenceCounter(client *redis.Client, ttl time.Duration) *RedisSequenceCounter {
	if ttl <= 0 {
		ttl = DefaultSequenceKeyTTL
	}
	return &RedisSequenceCounter{client: client, ttl: ttl}
}

// Next implements sequence.Counter
func (c *RedisSequenceCounter) Next(ctx context.Context, docType sequence.DocumentType, day string) (int64, error) {
	key := sequenceKey(docType, day)

	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

func sequenceKey(docType sequence.DocumentType, day string) string {
	return "seq:" + docType.String() + ":" + day
}

var _ sequence.Counter = (*RedisSequenceCounter)(nil)
