package cart

import (
	"context"
	"errors"

	"elitestore-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id::text, customer_id::text, anonymous_id, state, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (customer_id, anonymous_id, state)
VALUES ($1, $2, 'active')
RETURNING ` + cartColumns
	var cart domain.Cart
	customerID := in.CustomerID
	anonymousID := in.AnonymousID
	if err := r.pool.QueryRow(ctx, q, customerID, anonymousID).Scan(
		&cart.ID,
		&customerID,
		&anonymousID,
		&cart.State,
		&cart.CreatedAt,
	); err != nil {
		return nil, err
	}
	cart.CustomerID = customerID
	cart.AnonymousID = anonymousID
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE id = $1
`, id)
}

func (r *postgresRepo) GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE customer_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`, customerID)
}

func (r *postgresRepo) GetActiveByAnonymous(ctx context.Context, anonymousID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE anonymous_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`, anonymousID)
}

func (r *postgresRepo) AssignCustomerToAnonymous(ctx context.Context, anonymousID, customerID string) (*domain.Cart, error) {
	const q = `
UPDATE carts
SET customer_id = $1,
    anonymous_id = NULL
WHERE anonymous_id = $2 AND state = 'active'
RETURNING id::text
`
	var cartID string
	if err := r.pool.QueryRow(ctx, q, customerID, anonymousID).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, cartID)
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID string, product domain.Product, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, product.ID).Scan(&existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE cart_id = $2 AND product_id = $3
`, existingQty+quantity, cartID, product.ID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, name, category, image_url, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
`, cartID, product.ID, product.Name, product.Category, product.ImageURL, product.PriceCents, quantity); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity <= 0 {
		cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrLineNotFound
		}
		return nil
	}

	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE cart_id = $2 AND product_id = $3
`, quantity, cartID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, productID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1
`, cartID)
	return err
}

func (r *postgresRepo) MarkOrdered(ctx context.Context, cartID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE carts
SET state = 'ordered'
WHERE id = $1 AND state = 'active'
`, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID *string
	var anonymousID *string
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&customerID,
		&anonymousID,
		&cart.State,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.CustomerID = customerID
	cart.AnonymousID = anonymousID

	const linesQuery = `
SELECT product_id, name, COALESCE(category, ''), COALESCE(image_url, ''), unit_price_cents, quantity, added_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY added_at ASC, product_id
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ProductID,
			&line.Name,
			&line.Category,
			&line.ImageURL,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.AddedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}
