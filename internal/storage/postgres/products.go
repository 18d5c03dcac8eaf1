package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

const productColumns = `id, vendor_id, name, category, description, price::text, discounted_price::text, stock, created_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p                 model.Product
		price, discounted string
	)
	if err := row.Scan(&p.ID, &p.VendorID, &p.Name, &p.Category, &p.Description, &price, &discounted, &p.Stock, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = parseMoney(price); err != nil {
		return nil, err
	}
	if p.DiscountedPrice, err = parseMoney(discounted); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (vendor_id, name, category, description, price, discounted_price, stock)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query, product.VendorID, product.Name, product.Category, product.Description,
		money(product.Price), money(product.DiscountedPrice), product.Stock).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
              WHERE ($1::bigint = 0 OR vendor_id = $1) AND ($2::text = '' OR category = $2)
              ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, filter.VendorID, filter.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
