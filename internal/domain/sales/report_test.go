package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	day1 := time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 9, 23, 0, 0, 0, 0, time.UTC)

	line := func(receipt string, n int, pid string, price int64, qty int, day time.Time) SaleLine {
		l, err := NewSaleLine(receipt, LineInput{LineNo: n, ProductID: pid, ProductName: pid, UnitPrice: decimal.NewFromInt(price), Quantity: qty}, CustomerInfo{Name: "C"}, day, "")
		require.NoError(t, err)
		return *l
	}

	lines := []SaleLine{
		line("0001/LS/21092025", 1, "P1", 5000000, 1, day1),
		line("0001/LS/21092025", 2, "P2", 2000000, 3, day1),
		line("0001/LS/22092025", 1, "P2", 2000000, 1, day2),
		line("0001/LS/23092025", 1, "P3", 100, 1, day3),
	}

	t.Run("summarizes the range", func(t *testing.T) {
		r := BuildReport(lines, day1, day2.Add(15*time.Hour), 10)

		assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(13000000)))
		assert.Equal(t, 2, r.TotalTransactions)
		assert.Equal(t, 3, r.LineCount)
		assert.Equal(t, 5, r.ItemsSold)
		assert.Equal(t, "6500000", r.AverageTransaction.String())

		require.Len(t, r.DailyTrend, 2)
		assert.Equal(t, day1, r.DailyTrend[0].Date)
		assert.True(t, r.DailyTrend[0].TotalAmount.Equal(decimal.NewFromInt(11000000)))
		assert.Equal(t, 1, r.DailyTrend[0].TransactionCount)

		require.Len(t, r.TopProducts, 2)
		assert.Equal(t, "P2", r.TopProducts[0].ProductID)
		assert.Equal(t, 1, r.TopProducts[0].Rank)
		assert.Equal(t, 4, r.TopProducts[0].Quantity)
		assert.Equal(t, "P1", r.TopProducts[1].ProductID)
	})

	t.Run("limits top products", func(t *testing.T) {
		r := BuildReport(lines, day1, day3, 1)
		require.Len(t, r.TopProducts, 1)
		assert.Equal(t, "P2", r.TopProducts[0].ProductID)
	})

	t.Run("empty range yields zero average", func(t *testing.T) {
		r := BuildReport(lines, day3.AddDate(0, 0, 1), day3.AddDate(0, 0, 2), 5)
		assert.True(t, r.TotalRevenue.IsZero())
		assert.True(t, r.AverageTransaction.IsZero())
		assert.Equal(t, 0, r.TotalTransactions)
		assert.Empty(t, r.DailyTrend)
	})
}
