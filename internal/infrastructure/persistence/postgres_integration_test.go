//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	salesapp "github.com/lababil/pos/internal/application/sales"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a disposable postgres and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewEmbedded(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.GreaterOrEqual(t, version, uint(1))

	return db
}

func TestPostgres_EndToEnd(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)

	products := NewGormProductRepository(db)
	ledger := NewGormSaleLineRepository(db, jakarta)
	scope := NewGormTransactionScope(db, jakarta)
	seq := NewGormReceiptSequence(db)

	t.Run("products and search", func(t *testing.T) {
		for _, p := range seedProducts(t, products) {
			found, err := products.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, p.Price.Equal(found.Price))
		}

		hits, err := products.Search(ctx, "LOGI")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Mouse Logitech", hits[0].Name)
	})

	t.Run("receipt counters are atomic", func(t *testing.T) {
		var wg sync.WaitGroup
		values := make(chan int64, 30)
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := seq.Next(ctx, sales.CounterKey(time.Date(2025, 9, 22, 0, 0, 0, 0, jakarta)))
				assert.NoError(t, err)
				values <- v
			}()
		}
		wg.Wait()
		close(values)

		seen := make(map[int64]bool)
		for v := range values {
			assert.False(t, seen[v], "duplicate value %d", v)
			seen[v] = true
		}
		assert.Len(t, seen, 30)
	})

	t.Run("ledger round trip through a transaction", func(t *testing.T) {
		day := time.Date(2025, 9, 22, 0, 0, 0, 0, jakarta)
		err := scope.Execute(ctx, func(repos salesapp.TransactionalRepositories) error {
			return repos.SaleLineRepo().SaveAll(ctx, mustLines(t, "0001/LS/22092025", "Budi", day, 2, 1))
		})
		require.NoError(t, err)

		lines, err := ledger.FindByReceipt(ctx, "0001/LS/22092025")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.True(t, day.Equal(lines[0].Date))
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("settings singleton", func(t *testing.T) {
		repo := NewGormSettingsRepository(db)
		s := settings.Defaults()
		require.NoError(t, repo.Save(ctx, &s))
		require.NoError(t, repo.Save(ctx, &s))

		got, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, s.CompanyName, got.CompanyName)
	})
}
