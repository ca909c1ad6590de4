package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is the flat projection the admin dashboard aggregates over: one
// row per order item, carrying enough of the parent order to group by status
// and sum delivered revenue.
type OrderLine struct {
	OrderID     string          `json:"order_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	OrderStatus OrderStatus     `json:"order_status"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ProductSales struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type DashboardStats struct {
	Month        time.Month           `json:"month"`
	Year         int                  `json:"year"`
	ProductSales []ProductSales       `json:"product_sales"`
	StatusCounts map[OrderStatus]int  `json:"status_counts"`
	Revenue      decimal.Decimal      `json:"revenue"`
	OrderCount   int                  `json:"order_count"`
}
