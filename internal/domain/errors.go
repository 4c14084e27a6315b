package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuantity rejects zero or negative quantities when adding to a cart.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrLineNotFound indicates the cart holds no line for the given product.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrEmptyCart rejects checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrForbidden indicates the acting user may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrIllegalTransition rejects an order status change the lifecycle does not
	// allow, including one that lost to a concurrent update of the same order.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrStorageUnavailable wraps storage-layer failures surfaced to callers.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
