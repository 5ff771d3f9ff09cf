package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/greatnexus/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// SequenceCounter is the storage row behind the sequence allocator.
// It is owned exclusively by GormSequenceAllocator; nothing else reads or
// writes this table.
type SequenceCounter struct {
	Key       string    `gorm:"primaryKey;size:120;column:key"`
	Seq       int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

// GormSequenceAllocator implements sales.SequenceAllocator with a
// single-statement atomic upsert. The first allocation for a scope creates
// the counter at 1; every later allocation increments and returns the new
// value in the same statement, so concurrent callers can never observe the
// same number. Works on PostgreSQL and on SQLite 3.35+.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

// Next atomically increments and returns the counter for the scope key
func (a *GormSequenceAllocator) Next(ctx context.Context, scopeKey string) (int64, error) {
	if scopeKey == "" {
		return 0, fmt.Errorf("sequence scope key cannot be empty")
	}

	var seq int64
	err := a.db.WithContext(ctx).Raw(
		`INSERT INTO sequence_counters (key, seq, updated_at)
		 VALUES (?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT (key)
		 DO UPDATE SET seq = sequence_counters.seq + 1, updated_at = CURRENT_TIMESTAMP
		 RETURNING seq`, scopeKey).Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence for %q: %w", scopeKey, err)
	}
	return seq, nil
}

var _ sales.SequenceAllocator = (*GormSequenceAllocator)(nil)
