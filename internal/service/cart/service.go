package cart

import (
	"context"
	"errors"

	"elitestore-api/internal/domain"
	cartrepo "elitestore-api/internal/repository/cart"
)

// Shopper identifies who owns a cart: a signed-in customer or an anonymous
// session. Exactly one of the two is set.
type Shopper struct {
	CustomerID  string
	AnonymousID string
}

type Service struct {
	repo        cartRepo
	productRepo productRepo
	pricing     domain.Pricing
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	GetActiveByAnonymous(ctx context.Context, anonymousID string) (*domain.Cart, error)
	AssignCustomerToAnonymous(ctx context.Context, anonymousID, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, product domain.Product, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo, pricing: domain.DefaultPricing}
}

// ActiveCart returns the shopper's active cart, creating an empty one on
// first use.
func (s *Service) ActiveCart(ctx context.Context, shopper Shopper) (*domain.Cart, error) {
	cart, err := s.fetchActive(ctx, shopper)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	in := cartrepo.CreateCartInput{}
	switch {
	case shopper.CustomerID != "":
		in.CustomerID = &shopper.CustomerID
	case shopper.AnonymousID != "":
		in.AnonymousID = &shopper.AnonymousID
	default:
		return nil, domain.ErrForbidden
	}
	return s.repo.Create(ctx, in)
}

// AddItem adds qty units of the product to the shopper's cart, merging into
// an existing line for the same product. The product's current price is
// snapshotted onto the line.
func (s *Service) AddItem(ctx context.Context, shopper Shopper, productID string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.ActiveCart(ctx, shopper)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, *product, qty); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// SetQuantity sets the line quantity for the product. A quantity of zero or
// less removes the line; an absent line fails with ErrLineNotFound.
func (s *Service) SetQuantity(ctx context.Context, shopper Shopper, productID string, qty int) (*domain.Cart, error) {
	cart, err := s.fetchActive(ctx, shopper)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLineQuantity(ctx, cart.ID, productID, qty); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// RemoveItem deletes the product's line; removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, shopper Shopper, productID string) (*domain.Cart, error) {
	cart, err := s.fetchActive(ctx, shopper)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// ClearCart removes every line from the shopper's active cart.
func (s *Service) ClearCart(ctx context.Context, shopper Shopper) (*domain.Cart, error) {
	cart, err := s.fetchActive(ctx, shopper)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// Quote prices the cart under the storefront pricing policy.
func (s *Service) Quote(cart *domain.Cart) domain.Totals {
	return s.pricing.Quote(cart)
}

// Claim moves an anonymous session's active cart to the customer, used when
// a shopper signs in with items already in the guest cart. ErrNotFound means
// there was nothing to claim.
func (s *Service) Claim(ctx context.Context, anonymousID, customerID string) (*domain.Cart, error) {
	return s.repo.AssignCustomerToAnonymous(ctx, anonymousID, customerID)
}

func (s *Service) fetchActive(ctx context.Context, shopper Shopper) (*domain.Cart, error) {
	switch {
	case shopper.CustomerID != "":
		return s.repo.GetActiveByCustomer(ctx, shopper.CustomerID)
	case shopper.AnonymousID != "":
		return s.repo.GetActiveByAnonymous(ctx, shopper.AnonymousID)
	}
	return nil, domain.ErrForbidden
}
