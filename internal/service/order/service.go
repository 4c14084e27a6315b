package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"elitestore-api/internal/domain"
	orderrepo "elitestore-api/internal/repository/order"
)

type Service struct {
	orders  orderRepo
	carts   cartRepo
	pricing domain.Pricing
	logger  *log.Logger
	now     func() time.Time
}

type orderRepo interface {
	Insert(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, extra orderrepo.StatusUpdate) (*domain.Order, error)
}

type cartRepo interface {
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	MarkOrdered(ctx context.Context, cartID string) error
}

func New(orders orderrepo.Repository, carts cartRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:  orders,
		carts:   carts,
		pricing: domain.DefaultPricing,
		logger:  logger,
		now:     time.Now,
	}
}

// CheckoutInput is the checkout form payload.
type CheckoutInput struct {
	ShippingInfo domain.ShippingInfo
}

// Checkout turns the customer's active cart into a pending order. Totals are
// priced at this instant and frozen into the order; later catalog or cart
// changes do not touch them. The order is persisted before any local state
// is reflected back, so a rejected write never shows up as a placed order.
func (s *Service) Checkout(ctx context.Context, actor domain.Actor, in CheckoutInput) (*domain.Order, error) {
	cart, err := s.carts.GetActiveByCustomer(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	quote := s.pricing.Quote(cart)
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			Category:       line.Category,
			ImageURL:       line.ImageURL,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}

	now := s.now().UTC()
	created, err := s.orders.Insert(ctx, domain.Order{
		OrderNumber:   domain.NewOrderNumber(now),
		CustomerID:    actor.ID,
		Items:         items,
		ShippingInfo:  in.ShippingInfo,
		SubtotalCents: quote.SubtotalCents,
		ShippingCents: quote.ShippingCents,
		TaxCents:      quote.TaxCents,
		TotalCents:    quote.TotalCents,
		Status:        domain.OrderPending,
	})
	if err != nil {
		return nil, err
	}

	// The order exists at this point. A failure to retire the cart must not
	// fail the checkout, or a client retry would place a duplicate order.
	if err := s.carts.MarkOrdered(ctx, cart.ID); err != nil {
		s.logger.Printf("order service: retire cart id=%s after order %s: %v", cart.ID, created.OrderNumber, err)
	}

	return created, nil
}

// TransitionInput carries optional fields attached during a transition.
type TransitionInput struct {
	TrackingNumber string
}

// Transition moves the order to the requested status. Admins may perform any
// lifecycle transition; the owner may only cancel. The write is conditional
// on the status the actor saw, so a concurrent update fails the request
// instead of being overwritten.
func (s *Service) Transition(ctx context.Context, actor domain.Actor, orderID string, next domain.OrderStatus, in TransitionInput) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin {
		if actor.ID != o.CustomerID {
			return nil, domain.ErrForbidden
		}
		if next != domain.OrderCancelled {
			return nil, domain.ErrForbidden
		}
	}

	if !o.Status.CanTransitionTo(next) {
		return nil, domain.ErrIllegalTransition
	}

	var extra orderrepo.StatusUpdate
	if next == domain.OrderCancelled {
		cancelledAt := s.now().UTC()
		extra.CancelledAt = &cancelledAt
	}
	if next == domain.OrderShipped && in.TrackingNumber != "" {
		extra.TrackingNumber = &in.TrackingNumber
	}

	updated, err := s.orders.UpdateStatus(ctx, o.ID, o.Status, next, extra)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order service: %s %s -> %s by %s", o.OrderNumber, o.Status, next, actor.Email)
	return updated, nil
}

// Get returns one order; only its owner or an admin may see it.
func (s *Service) Get(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && actor.ID != o.CustomerID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// ListForCustomer returns the customer's orders, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// ListAll returns every order, newest first. Admin only.
func (s *Service) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.orders.ListAll(ctx)
}

// Stats summarizes orders for the admin dashboard.
type Stats struct {
	TotalOrders       int   `json:"totalOrders"`
	TotalRevenueCents int64 `json:"totalRevenueCents"`
	PendingOrders     int   `json:"pendingOrders"`
	CompletedOrders   int   `json:"completedOrders"`
}

// Summarize computes dashboard stats over all orders. Admin only.
func (s *Service) Summarize(ctx context.Context, actor domain.Actor) (*Stats, error) {
	orders, err := s.ListAll(ctx, actor)
	if err != nil {
		return nil, err
	}
	stats := &Stats{TotalOrders: len(orders)}
	for _, o := range orders {
		stats.TotalRevenueCents += o.TotalCents
		switch o.Status {
		case domain.OrderPending:
			stats.PendingOrders++
		case domain.OrderDelivered:
			stats.CompletedOrders++
		}
	}
	return stats, nil
}
