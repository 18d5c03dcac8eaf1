package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `o.id, o.customer_id, o.status, o.created_at, o.shipped_at, o.updated_at`

// vendorItems restricts an order listing to orders carrying items of vendor $1.
const vendorItems = `EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.vendor_id = $1)`

func (r *orderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	const reserveStock = `UPDATE products SET stock = stock - $2
                          WHERE id = $1 AND stock >= $2
                          RETURNING vendor_id, name, price::text, discounted_price::text`
	const productExists = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
	const insertOrder = `INSERT INTO orders (customer_id, status) VALUES ($1, $2)
                         RETURNING id, created_at, updated_at`
	const insertItem = `INSERT INTO order_items (order_id, product_id, vendor_id, name, price, discounted_price, quantity)
                        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for i := range order.Items {
			item := &order.Items[i]
			var price, discounted string
			err := tx.QueryRow(ctx, reserveStock, item.ProductID, item.Quantity).
				Scan(&item.VendorID, &item.Name, &price, &discounted)
			if errors.Is(err, pgx.ErrNoRows) {
				var exists bool
				if err := tx.QueryRow(ctx, productExists, item.ProductID).Scan(&exists); err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("product %d: %w", item.ProductID, domainErrors.ErrNotFound)
				}
				return fmt.Errorf("product %d: %w", item.ProductID, domainErrors.ErrInsufficientStock)
			}
			if err != nil {
				return err
			}
			if item.Price, err = parseMoney(price); err != nil {
				return err
			}
			if item.DiscountedPrice, err = parseMoney(discounted); err != nil {
				return err
			}
		}

		if err := tx.QueryRow(ctx, insertOrder, order.CustomerID, order.Status).
			Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return err
		}

		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, item.ProductID, item.VendorID, item.Name,
				money(item.Price), money(item.DiscountedPrice), item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id=$1`
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.ShippedAt, &o.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	orders := []model.Order{o}
	if err := loadItems(ctx, r.storage.pool, orders, 0); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.customer_id=$1 ORDER BY o.created_at DESC`
	return r.list(ctx, 0, query, customerID)
}

func (r *orderRepository) ListByVendor(ctx context.Context, vendorID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE ` + vendorItems + ` ORDER BY o.created_at DESC`
	return r.list(ctx, vendorID, query, vendorID)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus, shippedAt *time.Time) error {
	const updateStatus = `UPDATE orders SET status=$3, shipped_at=COALESCE($4, shipped_at), updated_at=NOW()
                          WHERE id=$1 AND status=$2`
	const orderExists = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`
	const restock = `UPDATE products p SET stock = p.stock + r.quantity
                     FROM (SELECT product_id, SUM(quantity) AS quantity FROM order_items
                           WHERE order_id = $1 GROUP BY product_id) r
                     WHERE p.id = r.product_id`

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateStatus, id, from, to, shippedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, orderExists, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domainErrors.ErrNotFound
			}
			// Status moved since it was read.
			return domainErrors.ErrInvalidStatusTransition
		}
		if to == model.OrderStatusCancelled {
			if _, err := tx.Exec(ctx, restock, id); err != nil {
				return fmt.Errorf("restock order %d: %w", id, err)
			}
		}
		return nil
	})
}

func (r *orderRepository) DeliveredShippedWithin(ctx context.Context, vendorID int64, period model.Period) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o
              WHERE ` + vendorItems + ` AND o.status = $2 AND o.shipped_at BETWEEN $3 AND $4
              ORDER BY o.shipped_at`
	return r.list(ctx, vendorID, query, vendorID, model.OrderStatusDelivered, period.Start, period.End)
}

func (r *orderRepository) DeliveredCreatedWithin(ctx context.Context, vendorID int64, period model.Period) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o
              WHERE ` + vendorItems + ` AND o.status = $2 AND o.created_at BETWEEN $3 AND $4
              ORDER BY o.created_at`
	return r.list(ctx, vendorID, query, vendorID, model.OrderStatusDelivered, period.Start, period.End)
}

// list runs an order query and attaches line items. Non-zero vendorID keeps only that vendor's items.
func (r *orderRepository) list(ctx context.Context, vendorID int64, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.ShippedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := loadItems(ctx, r.storage.pool, result, vendorID); err != nil {
		return nil, err
	}
	return result, nil
}

func loadItems(ctx context.Context, q querier, orders []model.Order, vendorID int64) error {
	if len(orders) == 0 {
		return nil
	}
	const query = `SELECT order_id, product_id, vendor_id, name, price::text, discounted_price::text, quantity
                   FROM order_items
                   WHERE order_id = ANY($1) AND ($2::bigint = 0 OR vendor_id = $2)
                   ORDER BY order_id, id`

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := q.Query(ctx, query, ids, vendorID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID           int64
			item              model.LineItem
			price, discounted string
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.VendorID, &item.Name, &price, &discounted, &item.Quantity); err != nil {
			return err
		}
		if item.Price, err = parseMoney(price); err != nil {
			return err
		}
		if item.DiscountedPrice, err = parseMoney(discounted); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}
