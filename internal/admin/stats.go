// Package admin computes the dashboard aggregates: per-product sales,
// order-status distribution and delivered revenue for a selected month. The
// aggregation runs over whatever page of order lines the repository returned;
// it does not paginate the source first, which is a known scale limitation.
package admin

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trendmart/storefront/internal/models"
)

// MonthlyStats filters the order lines to the given month/year and aggregates
// them. Status counts and revenue are per distinct order, not per line.
func MonthlyStats(lines []models.OrderLine, month time.Month, year int) models.DashboardStats {
	stats := models.DashboardStats{
		Month:        month,
		Year:         year,
		StatusCounts: make(map[models.OrderStatus]int),
		Revenue:      decimal.Zero,
	}

	qtyByProduct := make(map[string]int)
	seenOrders := make(map[string]bool)

	for _, l := range lines {
		if l.CreatedAt.Month() != month || l.CreatedAt.Year() != year {
			continue
		}

		qtyByProduct[l.ProductName] += l.Quantity

		if seenOrders[l.OrderID] {
			continue
		}
		seenOrders[l.OrderID] = true
		stats.StatusCounts[l.OrderStatus]++
		if l.OrderStatus == models.OrderStatusDelivered {
			stats.Revenue = stats.Revenue.Add(l.OrderTotal)
		}
	}

	stats.OrderCount = len(seenOrders)
	stats.ProductSales = make([]models.ProductSales, 0, len(qtyByProduct))
	for name, qty := range qtyByProduct {
		stats.ProductSales = append(stats.ProductSales, models.ProductSales{ProductName: name, Quantity: qty})
	}
	// Highest sellers first; ties by name so the order is stable.
	sort.Slice(stats.ProductSales, func(i, j int) bool {
		a, b := stats.ProductSales[i], stats.ProductSales[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ProductName < b.ProductName
	})
	return stats
}
