package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/trendmart/storefront/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts the order and its items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	insertOrder := `
		INSERT INTO orders
		(id, user_id, subtotal, discount, total, coupon_code, status, payment_method,
		 delivery_full_name, delivery_phone, delivery_address, delivery_note, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID,
		o.UserID,
		o.Subtotal,
		o.Discount,
		o.Total,
		o.CouponCode,
		o.Status,
		o.PaymentMethod,
		o.Delivery.FullName,
		o.Delivery.Phone,
		o.Delivery.Address,
		o.Delivery.Note,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return err
	}

	insertItem := `
		INSERT INTO order_items (order_id, product_id, name, price, quantity)
		VALUES ($1,$2,$3,$4,$5)
	`
	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItem, o.ID, it.ProductID, it.Name, it.Price, it.Quantity); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, user_id, subtotal, discount, total, coupon_code, status, payment_method,
		       delivery_full_name, delivery_phone, delivery_address, delivery_note,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o models.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.Subtotal,
		&o.Discount,
		&o.Total,
		&o.CouponCode,
		&o.Status,
		&o.PaymentMethod,
		&o.Delivery.FullName,
		&o.Delivery.Phone,
		&o.Delivery.Address,
		&o.Delivery.Note,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepo) getItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `SELECT product_id, name, price, quantity FROM order_items WHERE order_id = $1`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByUser returns order summaries for a user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.OrderSummary, error) {
	query := `
		SELECT o.id, o.total, o.status, o.created_at,
		       (SELECT COALESCE(SUM(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id)
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.OrderSummary{}
	for rows.Next() {
		var s models.OrderSummary
		if err := rows.Scan(&s.ID, &s.Total, &s.Status, &s.CreatedAt, &s.ItemCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateStatus moves the order to a new status. The caller is responsible
// for checking the transition is legal.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListLines returns the flat order-line projection the admin dashboard
// aggregates over. The result is bounded by limit; aggregation happens over
// whatever page this returns.
func (r *OrderRepo) ListLines(ctx context.Context, limit int) ([]models.OrderLine, error) {
	query := `
		SELECT o.id, i.name, i.quantity, o.status, o.total, o.created_at
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		ORDER BY o.created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductName, &l.Quantity, &l.OrderStatus, &l.OrderTotal, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
