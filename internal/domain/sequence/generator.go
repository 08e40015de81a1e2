package sequence

import (
	"context"
	"fmt"
	"time"
)

// Counter is an atomic, date-scoped increment-and-fetch counter.
// Next must return 1 for the first call of a (docType, day) pair and
// strictly increasing values afterwards, even under concurrent callers.
type Counter interface {
	Next(ctx context.Context, docType DocumentType, day string) (int64, error)
}

// Clock returns the current time
type Clock func() time.Time

// Generator produces document numbers from a Counter
type Generator struct {
	counter Counter
	clock   Clock
}

// NewGenerator creates a generator. A nil clock uses the local wall clock.
func NewGenerator(counter Counter, clock Clock) *Generator {
	if clock == nil {
		clock = time.Now
	}
	return &Generator{counter: counter, clock: clock}
}

// Next returns the next number of the given type for today
func (g *Generator) Next(ctx context.Context, docType DocumentType) (string, error) {
	if !docType.IsValid() {
		return "", fmt.Errorf("unknown document type: %s", docType)
	}
	day := DayOf(g.clock())
	n, err := g.counter.Next(ctx, docType, day)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s sequence: %w", docType, err)
	}
	return Format(docType, day, n)
}
