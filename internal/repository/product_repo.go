package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/trendmart/storefront/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// List returns a page of products plus the total count for pagination meta.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]models.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, description, category, price, stock, image_url, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `
		SELECT id, name, description, category, price, stock, image_url, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, category, price, stock, image_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageURL)
	return err
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5, stock = $6, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Category, p.Price, p.Stock)
	if err != nil {
		return err
	}
	return oneRowOr(res, ErrProductNotFound)
}

func (r *ProductRepo) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, imageURL)
	if err != nil {
		return err
	}
	return oneRowOr(res, ErrProductNotFound)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return oneRowOr(res, ErrProductNotFound)
}
