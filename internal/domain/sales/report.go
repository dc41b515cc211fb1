package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Report is a read model summarizing sales over a day range
type Report struct {
	From               time.Time             `json:"from"`
	To                 time.Time             `json:"to"`
	TotalRevenue       decimal.Decimal       `json:"total_revenue"`
	TotalTransactions  int                   `json:"total_transactions"`
	LineCount          int                   `json:"line_count"`
	ItemsSold          int                   `json:"items_sold"`
	AverageTransaction decimal.Decimal       `json:"average_transaction"`
	DailyTrend         []DailySalesTrend     `json:"daily_trend"`
	TopProducts        []ProductSalesSummary `json:"top_products"`
}

// DailySalesTrend represents one day of sales
type DailySalesTrend struct {
	Date             time.Time       `json:"date"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ItemsSold        int             `json:"items_sold"`
}

// ProductSalesSummary ranks a product by revenue
type ProductSalesSummary struct {
	Rank        int             `json:"rank"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// BuildReport summarizes lines whose date falls within [from, to] (inclusive
// day bounds). Revenue is the sum of stored line totals, before tax.
func BuildReport(lines []SaleLine, from, to time.Time, topN int) Report {
	from, to = TruncateDay(from), TruncateDay(to)
	report := Report{
		From:               from,
		To:                 to,
		TotalRevenue:       decimal.Zero,
		AverageTransaction: decimal.Zero,
		DailyTrend:         make([]DailySalesTrend, 0),
		TopProducts:        make([]ProductSalesSummary, 0),
	}

	receipts := make(map[string]struct{})
	days := make(map[string]*DailySalesTrend)
	dayReceipts := make(map[string]map[string]struct{})
	products := make(map[string]*ProductSalesSummary)
	productOrder := make([]string, 0)

	for _, line := range lines {
		day := TruncateDay(line.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		key := line.ReceiptKey()
		dayKey := day.Format(time.DateOnly)

		report.LineCount++
		report.ItemsSold += line.Quantity
		report.TotalRevenue = report.TotalRevenue.Add(line.Total)
		receipts[key] = struct{}{}

		trend, ok := days[dayKey]
		if !ok {
			trend = &DailySalesTrend{Date: day, TotalAmount: decimal.Zero}
			days[dayKey] = trend
			dayReceipts[dayKey] = make(map[string]struct{})
		}
		trend.TotalAmount = trend.TotalAmount.Add(line.Total)
		trend.ItemsSold += line.Quantity
		dayReceipts[dayKey][key] = struct{}{}

		ps, ok := products[line.ProductID]
		if !ok {
			ps = &ProductSalesSummary{ProductID: line.ProductID, ProductName: line.ProductName, Revenue: decimal.Zero}
			products[line.ProductID] = ps
			productOrder = append(productOrder, line.ProductID)
		}
		ps.Quantity += line.Quantity
		ps.Revenue = ps.Revenue.Add(line.Total)
	}

	report.TotalTransactions = len(receipts)
	if report.TotalTransactions > 0 {
		report.AverageTransaction = report.TotalRevenue.
			Div(decimal.NewFromInt(int64(report.TotalTransactions))).
			Round(2)
	}

	for dayKey, trend := range days {
		trend.TransactionCount = len(dayReceipts[dayKey])
		report.DailyTrend = append(report.DailyTrend, *trend)
	}
	sort.Slice(report.DailyTrend, func(i, j int) bool {
		return report.DailyTrend[i].Date.Before(report.DailyTrend[j].Date)
	})

	for _, id := range productOrder {
		report.TopProducts = append(report.TopProducts, *products[id])
	}
	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue.GreaterThan(report.TopProducts[j].Revenue)
	})
	if topN > 0 && len(report.TopProducts) > topN {
		report.TopProducts = report.TopProducts[:topN]
	}
	for i := range report.TopProducts {
		report.TopProducts[i].Rank = i + 1
	}

	return report
}
