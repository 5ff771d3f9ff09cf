package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSequenceAllocator creates an allocator over a mocked PostgreSQL
// connection to pin down the exact statement the allocator issues.
func newMockSequenceAllocator(t *testing.T) (*GormSequenceAllocator, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSequenceAllocator(gormDB), mock, mockDB
}

func TestGormSequenceAllocator_Statement(t *testing.T) {
	t.Run("allocates through a single upsert returning the sequence", func(t *testing.T) {
		allocator, mock, mockDB := newMockSequenceAllocator(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"seq"}).AddRow(int64(7))
		mock.ExpectQuery(`(?s)INSERT INTO sequence_counters.*ON CONFLICT \(key\).*DO UPDATE SET seq = sequence_counters\.seq \+ 1.*RETURNING seq`).
			WithArgs("invoice_2026_general").
			WillReturnRows(rows)

		seq, err := allocator.Next(context.Background(), "invoice_2026_general")
		require.NoError(t, err)
		assert.Equal(t, int64(7), seq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		allocator, mock, mockDB := newMockSequenceAllocator(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters`).
			WillReturnError(errors.New("connection reset"))

		_, err := allocator.Next(context.Background(), "invoice_2026_general")
		assert.Error(t, err)
	})

	t.Run("rejects an empty key without touching the database", func(t *testing.T) {
		allocator, mock, mockDB := newMockSequenceAllocator(t)
		defer mockDB.Close()

		_, err := allocator.Next(context.Background(), "")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
