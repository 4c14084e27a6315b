package order

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"elitestore-api/internal/domain"
	orderrepo "elitestore-api/internal/repository/order"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubOrderRepo struct {
	order       *domain.Order
	insertErr   error
	getErr      error
	listErr     error
	byCustomer  []domain.Order
	all         []domain.Order
	inserted    *domain.Order
	updateCalls int
	lastExtra   orderrepo.StatusUpdate
	updateErr   error
}

func (s *stubOrderRepo) Insert(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	o.ID = "order-1"
	o.CreatedAt = time.Now().UTC()
	s.inserted = &o
	s.order = &o
	cp := o
	return &cp, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	cp := *s.order
	return &cp, nil
}

func (s *stubOrderRepo) ListByCustomer(_ context.Context, _ string) ([]domain.Order, error) {
	return s.byCustomer, s.listErr
}

func (s *stubOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	return s.all, s.listErr
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, extra orderrepo.StatusUpdate) (*domain.Order, error) {
	s.updateCalls++
	s.lastExtra = extra
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	if s.order.Status != from {
		return nil, domain.ErrIllegalTransition
	}
	s.order.Status = to
	if extra.CancelledAt != nil {
		s.order.CancelledAt = extra.CancelledAt
	}
	if extra.TrackingNumber != nil {
		s.order.TrackingNumber = *extra.TrackingNumber
	}
	cp := *s.order
	return &cp, nil
}

type stubCartRepo struct {
	cart    *domain.Cart
	getErr  error
	marked  []string
	markErr error
}

func (s *stubCartRepo) GetActiveByCustomer(_ context.Context, _ string) (*domain.Cart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.cart == nil {
		return nil, domain.ErrNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepo) MarkOrdered(_ context.Context, cartID string) error {
	s.marked = append(s.marked, cartID)
	return s.markErr
}

func newTestService(orders *stubOrderRepo, carts *stubCartRepo) *Service {
	return &Service{
		orders:  orders,
		carts:   carts,
		pricing: domain.DefaultPricing,
		logger:  discardLogger(),
		now:     func() time.Time { return time.UnixMilli(1700000000123) },
	}
}

var (
	owner    = domain.Actor{ID: "cust-1", Email: "shopper@example.com"}
	admin    = domain.Actor{ID: "admin-1", Email: "admin@elitestore.com", IsAdmin: true}
	stranger = domain.Actor{ID: "cust-2", Email: "other@example.com"}
)

func fiftyTimesTwoCart() *domain.Cart {
	return &domain.Cart{
		ID:    "cart-1",
		State: "active",
		Lines: []domain.CartLine{
			{ProductID: "p1", Name: "Premium Wireless Headphones", UnitPriceCents: 50_00, Quantity: 2},
		},
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestService(&stubOrderRepo{}, &stubCartRepo{})
	if _, err := svc.Checkout(context.Background(), owner, CheckoutInput{}); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("no active cart: expected ErrEmptyCart, got %v", err)
	}

	svc = newTestService(&stubOrderRepo{}, &stubCartRepo{cart: &domain.Cart{ID: "cart-1", State: "active"}})
	if _, err := svc.Checkout(context.Background(), owner, CheckoutInput{}); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("cart with no lines: expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutFreezesTotals(t *testing.T) {
	orders := &stubOrderRepo{}
	carts := &stubCartRepo{cart: fiftyTimesTwoCart()}
	svc := newTestService(orders, carts)

	created, err := svc.Checkout(context.Background(), owner, CheckoutInput{
		ShippingInfo: domain.ShippingInfo{FirstName: "Jo", City: "Springfield", Country: "United States"},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if created.Status != domain.OrderPending {
		t.Fatalf("new order must be pending, got %s", created.Status)
	}
	if !strings.HasPrefix(created.OrderNumber, "COD-") {
		t.Fatalf("unexpected order number %s", created.OrderNumber)
	}
	if created.SubtotalCents != 100_00 || created.ShippingCents != 9_99 || created.TaxCents != 8_00 || created.TotalCents != 117_99 {
		t.Fatalf("unexpected totals %+v", created)
	}
	if len(created.Items) != 1 || created.Items[0].Quantity != 2 {
		t.Fatalf("unexpected item snapshot %+v", created.Items)
	}
	if len(carts.marked) != 1 || carts.marked[0] != "cart-1" {
		t.Fatalf("cart must be retired after checkout, marked=%v", carts.marked)
	}

	// Later cart mutations must not reach the frozen order.
	carts.cart.Lines[0].Quantity = 9
	carts.cart.Lines[0].UnitPriceCents = 1
	if created.TotalCents != 117_99 || created.Items[0].Quantity != 2 {
		t.Fatalf("order totals changed after cart mutation: %+v", created)
	}
}

func TestCheckoutSurvivesCartRetireFailure(t *testing.T) {
	orders := &stubOrderRepo{}
	carts := &stubCartRepo{cart: fiftyTimesTwoCart(), markErr: errors.New("boom")}
	svc := newTestService(orders, carts)

	created, err := svc.Checkout(context.Background(), owner, CheckoutInput{})
	if err != nil {
		t.Fatalf("Checkout must not fail after the order is stored: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected persisted order, got %+v", created)
	}
}

func TestCheckoutPropagatesInsertError(t *testing.T) {
	wantErr := errors.New("insert failed")
	orders := &stubOrderRepo{insertErr: wantErr}
	carts := &stubCartRepo{cart: fiftyTimesTwoCart()}
	svc := newTestService(orders, carts)

	if _, err := svc.Checkout(context.Background(), owner, CheckoutInput{}); !errors.Is(err, wantErr) {
		t.Fatalf("expected insert error, got %v", err)
	}
	if len(carts.marked) != 0 {
		t.Fatalf("cart must stay active when the order write fails")
	}
}

func placedOrder(status domain.OrderStatus) *stubOrderRepo {
	return &stubOrderRepo{order: &domain.Order{
		ID:          "order-1",
		OrderNumber: "COD-1700000000123",
		CustomerID:  owner.ID,
		Status:      status,
	}}
}

func TestTransitionOrderNotFound(t *testing.T) {
	svc := newTestService(&stubOrderRepo{}, &stubCartRepo{})
	_, err := svc.Transition(context.Background(), admin, "missing", domain.OrderProcessing, TransitionInput{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionForbiddenForStranger(t *testing.T) {
	for _, next := range []domain.OrderStatus{domain.OrderProcessing, domain.OrderCancelled, domain.OrderDelivered} {
		orders := placedOrder(domain.OrderPending)
		svc := newTestService(orders, &stubCartRepo{})
		if _, err := svc.Transition(context.Background(), stranger, "order-1", next, TransitionInput{}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("stranger requesting %s: expected ErrForbidden, got %v", next, err)
		}
		if orders.updateCalls != 0 {
			t.Fatalf("forbidden request must not write")
		}
	}
}

func TestTransitionOwnerMayOnlyCancel(t *testing.T) {
	orders := placedOrder(domain.OrderPending)
	svc := newTestService(orders, &stubCartRepo{})
	if _, err := svc.Transition(context.Background(), owner, "order-1", domain.OrderShipped, TransitionInput{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("owner requesting shipped: expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Transition(context.Background(), owner, "order-1", domain.OrderCancelled, TransitionInput{})
	if err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if updated.Status != domain.OrderCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if updated.CancelledAt == nil {
		t.Fatal("cancellation must stamp cancelledAt")
	}
}

func TestTransitionIllegalLeavesStateUntouched(t *testing.T) {
	cases := []struct {
		from, to domain.OrderStatus
	}{
		{domain.OrderDelivered, domain.OrderShipped},
		{domain.OrderDelivered, domain.OrderCancelled},
		{domain.OrderCancelled, domain.OrderPending},
		{domain.OrderShipped, domain.OrderCancelled},
	}
	for _, tc := range cases {
		orders := placedOrder(tc.from)
		svc := newTestService(orders, &stubCartRepo{})
		_, err := svc.Transition(context.Background(), admin, "order-1", tc.to, TransitionInput{})
		if !errors.Is(err, domain.ErrIllegalTransition) {
			t.Fatalf("%s -> %s: expected ErrIllegalTransition, got %v", tc.from, tc.to, err)
		}
		if orders.updateCalls != 0 {
			t.Fatalf("%s -> %s: illegal transition must not write", tc.from, tc.to)
		}
		if orders.order.Status != tc.from {
			t.Fatalf("stored status changed to %s", orders.order.Status)
		}
	}
}

func TestTransitionFullLifecycle(t *testing.T) {
	orders := placedOrder(domain.OrderPending)
	svc := newTestService(orders, &stubCartRepo{})
	ctx := context.Background()

	steps := []domain.OrderStatus{domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered}
	for _, next := range steps {
		updated, err := svc.Transition(ctx, admin, "order-1", next, TransitionInput{})
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("expected %s, got %s", next, updated.Status)
		}
	}

	if _, err := svc.Transition(ctx, admin, "order-1", domain.OrderCancelled, TransitionInput{}); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Fatalf("cancel after delivery: expected ErrIllegalTransition, got %v", err)
	}
	if orders.order.Status != domain.OrderDelivered {
		t.Fatalf("stored status must remain delivered, got %s", orders.order.Status)
	}
}

func TestTransitionAttachesTracking(t *testing.T) {
	orders := placedOrder(domain.OrderProcessing)
	svc := newTestService(orders, &stubCartRepo{})

	updated, err := svc.Transition(context.Background(), admin, "order-1", domain.OrderShipped, TransitionInput{TrackingNumber: "TRK-42"})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.TrackingNumber != "TRK-42" {
		t.Fatalf("expected tracking number, got %q", updated.TrackingNumber)
	}
}

func TestTransitionLostRace(t *testing.T) {
	// The conditional write rejects a transition computed against a stale
	// status instead of overwriting the concurrent update.
	orders := placedOrder(domain.OrderPending)
	orders.updateErr = domain.ErrIllegalTransition
	svc := newTestService(orders, &stubCartRepo{})

	if _, err := svc.Transition(context.Background(), admin, "order-1", domain.OrderProcessing, TransitionInput{}); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestTransitionStorageUnavailable(t *testing.T) {
	orders := placedOrder(domain.OrderPending)
	orders.updateErr = domain.ErrStorageUnavailable
	svc := newTestService(orders, &stubCartRepo{})

	if _, err := svc.Transition(context.Background(), admin, "order-1", domain.OrderProcessing, TransitionInput{}); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	orders := placedOrder(domain.OrderPending)
	svc := newTestService(orders, &stubCartRepo{})
	ctx := context.Background()

	if _, err := svc.Get(ctx, owner, "order-1"); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.Get(ctx, admin, "order-1"); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := svc.Get(ctx, stranger, "order-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger get: expected ErrForbidden, got %v", err)
	}
}

func TestListAllAdminOnly(t *testing.T) {
	orders := &stubOrderRepo{all: []domain.Order{{ID: "a"}, {ID: "b"}}}
	svc := newTestService(orders, &stubCartRepo{})
	ctx := context.Background()

	if _, err := svc.ListAll(ctx, owner); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, err := svc.ListAll(ctx, admin)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
}

func TestSummarize(t *testing.T) {
	orders := &stubOrderRepo{all: []domain.Order{
		{Status: domain.OrderPending, TotalCents: 117_99},
		{Status: domain.OrderDelivered, TotalCents: 50_00},
		{Status: domain.OrderProcessing, TotalCents: 10_00},
	}}
	svc := newTestService(orders, &stubCartRepo{})

	stats, err := svc.Summarize(context.Background(), admin)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := Stats{TotalOrders: 3, TotalRevenueCents: 177_99, PendingOrders: 1, CompletedOrders: 1}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}
}
