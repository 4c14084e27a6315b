package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"elitestore-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, order_number, customer_id::text, shipping_info,
       subtotal_cents, shipping_cents, tax_cents, total_cents,
       status, COALESCE(tracking_number, ''), created_at, cancelled_at`

func (r *postgresRepo) Insert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	shipJSON, err := json.Marshal(o.ShippingInfo)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, storageErr("begin insert", err)
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (order_number, customer_id, shipping_info, subtotal_cents, shipping_cents, tax_cents, total_cents, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text, created_at
`
	res := o
	if err := tx.QueryRow(ctx, q,
		o.OrderNumber,
		o.CustomerID,
		shipJSON,
		o.SubtotalCents,
		o.ShippingCents,
		o.TaxCents,
		o.TotalCents,
		string(o.Status),
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, storageErr("insert order", err)
	}

	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, name, category, image_url, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
`, res.ID, item.ProductID, item.Name, item.Category, item.ImageURL, item.UnitPriceCents, item.Quantity); err != nil {
			return nil, storageErr("insert order item", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit insert", err)
	}
	r.logger.Printf("order repo: inserted id=%s number=%s customer=%s total=%d", res.ID, res.OrderNumber, res.CustomerID, res.TotalCents)
	return &res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := r.fetchOrder(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE id = $1
`, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`, customerID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
ORDER BY created_at DESC
`)
}

// UpdateStatus performs the transition as a conditional write. Zero rows
// means either the order vanished or its status moved concurrently; the
// refetch tells the two apart.
func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, extra StatusUpdate) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $1,
    cancelled_at = COALESCE($2, cancelled_at),
    tracking_number = COALESCE($3, tracking_number)
WHERE id = $4 AND status = $5
`
	cmd, err := r.pool.Exec(ctx, q, string(to), extra.CancelledAt, extra.TrackingNumber, id, string(from))
	if err != nil {
		return nil, storageErr("update status", err)
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		r.logger.Printf("order repo: conditional update lost id=%s expected=%s", id, from)
		return nil, domain.ErrIllegalTransition
	}
	r.logger.Printf("order repo: status id=%s %s -> %s", id, from, to)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, storageErr("scan order", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list orders rows", err)
	}
	for i := range result {
		if err := r.loadItems(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, query string, args ...interface{}) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("fetch order", err)
	}
	return o, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT product_id, name, COALESCE(category, ''), COALESCE(image_url, ''), unit_price_cents, quantity
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return storageErr("load items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Category, &item.ImageURL, &item.UnitPriceCents, &item.Quantity); err != nil {
			return storageErr("scan item", err)
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var shipJSON []byte
	var status string
	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&shipJSON,
		&o.SubtotalCents,
		&o.ShippingCents,
		&o.TaxCents,
		&o.TotalCents,
		&status,
		&o.TrackingNumber,
		&o.CreatedAt,
		&o.CancelledAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if len(shipJSON) > 0 {
		if err := json.Unmarshal(shipJSON, &o.ShippingInfo); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("order repo: %s: %w (%v)", op, domain.ErrStorageUnavailable, err)
}
