package admin

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/trendmart/storefront/internal/models"
)

func line(orderID, product string, qty int, status models.OrderStatus, total int64, created time.Time) models.OrderLine {
	return models.OrderLine{
		OrderID:     orderID,
		ProductName: product,
		Quantity:    qty,
		OrderStatus: status,
		OrderTotal:  decimal.NewFromInt(total),
		CreatedAt:   created,
	}
}

func TestMonthFilterAndQuantityGrouping(t *testing.T) {
	march := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)

	lines := []models.OrderLine{
		line("o1", "Mug", 2, models.OrderStatusDelivered, 40, march),
		line("o1", "Shirt", 1, models.OrderStatusDelivered, 40, march),
		line("o2", "Mug", 3, models.OrderStatusPending, 30, march),
		line("o3", "Mug", 9, models.OrderStatusDelivered, 90, april), // other month
	}

	stats := MonthlyStats(lines, time.March, 2026)

	assert.Equal(t, 2, stats.OrderCount)
	assert.Equal(t, []models.ProductSales{
		{ProductName: "Mug", Quantity: 5},
		{ProductName: "Shirt", Quantity: 1},
	}, stats.ProductSales)
}

func TestStatusDistributionCountsOrdersNotLines(t *testing.T) {
	when := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	lines := []models.OrderLine{
		line("o1", "Mug", 1, models.OrderStatusDelivered, 10, when),
		line("o1", "Shirt", 1, models.OrderStatusDelivered, 10, when),
		line("o2", "Mug", 1, models.OrderStatusCancelled, 10, when),
	}

	stats := MonthlyStats(lines, time.March, 2026)

	assert.Equal(t, 1, stats.StatusCounts[models.OrderStatusDelivered])
	assert.Equal(t, 1, stats.StatusCounts[models.OrderStatusCancelled])
}

func TestRevenueOnlyCountsDeliveredOrdersOnce(t *testing.T) {
	when := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	lines := []models.OrderLine{
		line("o1", "Mug", 1, models.OrderStatusDelivered, 40, when),
		line("o1", "Shirt", 2, models.OrderStatusDelivered, 40, when),
		line("o2", "Mug", 1, models.OrderStatusPending, 25, when),
		line("o3", "Hat", 1, models.OrderStatusRefunded, 15, when),
	}

	stats := MonthlyStats(lines, time.March, 2026)
	assert.True(t, decimal.NewFromInt(40).Equal(stats.Revenue), "got %s", stats.Revenue)
}

func TestEmptyMonth(t *testing.T) {
	stats := MonthlyStats(nil, time.January, 2026)
	assert.Zero(t, stats.OrderCount)
	assert.Empty(t, stats.ProductSales)
	assert.True(t, stats.Revenue.IsZero())
}
