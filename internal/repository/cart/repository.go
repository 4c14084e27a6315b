package cart

import (
	"context"

	"elitestore-api/internal/domain"
)

type CreateCartInput struct {
	CustomerID  *string
	AnonymousID *string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	GetActiveByAnonymous(ctx context.Context, anonymousID string) (*domain.Cart, error)
	AssignCustomerToAnonymous(ctx context.Context, anonymousID, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, product domain.Product, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
	MarkOrdered(ctx context.Context, cartID string) error
}
