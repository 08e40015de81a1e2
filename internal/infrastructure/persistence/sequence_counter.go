package persistence

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/sequence"
	"gorm.io/gorm"
)

// upsertSequence increments the (doc_type, day) counter in one statement.
// Postgres and SQLite >= 3.35 both accept ON CONFLICT ... RETURNING.
const upsertSequence = `INSERT INTO document_sequences (doc_type, day, value) VALUES (?, ?, 1)
ON CONFLICT (doc_type, day) DO UPDATE SET value = document_sequences.value + 1
RETURNING value`

// GormSequenceCounter is a sequence.Counter backed by the document_sequences table
type GormSequenceCounter struct {
	db *gorm.DB
}

// NewGormSequenceCounter creates a new GormSequenceCounter
func NewGormSequenceCounter(db *gorm.DB) *GormSequenceCounter {
	return &GormSequenceCounter{db: db}
}

// Next atomically increments and returns the counter of docType for day
func (c *GormSequenceCounter) Next(ctx context.Context, docType sequence.DocumentType, day string) (int64, error) {
	var value int64
	if err := c.db.WithContext(ctx).Raw(upsertSequence, string(docType), day).Scan(&value).Error; err != nil {
		return 0, fmt.Errorf("failed to increment %s sequence for %s: %w", docType, day, err)
	}
	return value, nil
}

var _ sequence.Counter = (*GormSequenceCounter)(nil)
