package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReceiptSequence_SQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`INSERT INTO receipt_counters \(counter_key, value\) VALUES \(\$1, 1\)\s+ON CONFLICT \(counter_key\) DO UPDATE SET value = receipt_counters.value \+ 1\s+RETURNING value`).
		WithArgs("last_receipt_22092025").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(7))

	seq := NewGormReceiptSequence(db.DB)
	value, err := seq.Next(context.Background(), "last_receipt_22092025")

	require.NoError(t, err)
	assert.Equal(t, int64(7), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReceiptSequence_Errors(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`INSERT INTO receipt_counters`).WillReturnError(errors.New("deadlock detected"))

	_, err := NewGormReceiptSequence(db.DB).Next(context.Background(), "last_receipt_22092025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last_receipt_22092025")
}

func TestGormReceiptSequence_SQLite(t *testing.T) {
	ctx := context.Background()
	seq := NewGormReceiptSequence(newSQLiteDB(t))

	t.Run("counts per key", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			got, err := seq.Next(ctx, "last_receipt_22092025")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		got, err := seq.Next(ctx, "last_receipt_23092025")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("concurrent callers never share a value", func(t *testing.T) {
		const callers = 20
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int64]bool)
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				value, err := seq.Next(ctx, "last_receipt_01012026")
				assert.NoError(t, err)
				mu.Lock()
				seen[value] = true
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, seen, callers)
		for v := int64(1); v <= callers; v++ {
			assert.True(t, seen[v], "missing value %d", v)
		}
	})
}
