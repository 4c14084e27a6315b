package cart

import (
	"context"
	"errors"
	"testing"

	"elitestore-api/internal/domain"
	cartrepo "elitestore-api/internal/repository/cart"
)

type stubRepo struct {
	activeCart    *domain.Cart
	activeErr     error
	created       *cartrepo.CreateCartInput
	createdCart   *domain.Cart
	createErr     error
	getByIDCart   *domain.Cart
	getByIDErr    error
	lastAddCartID string
	lastAddProd   domain.Product
	lastAddQty    int
	addErr        error
	lastSetProd   string
	lastSetQty    int
	setErr        error
	lastRemoved   string
	cleared       []string
	assignedAnon  string
	assignedCust  string
}

func (s *stubRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	s.created = &in
	return s.createdCart, s.createErr
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Cart, error) {
	if s.getByIDErr != nil {
		return nil, s.getByIDErr
	}
	if s.getByIDCart != nil {
		return s.getByIDCart, nil
	}
	return s.activeCart, nil
}

func (s *stubRepo) GetActiveByCustomer(_ context.Context, _ string) (*domain.Cart, error) {
	return s.activeCart, s.activeErr
}

func (s *stubRepo) GetActiveByAnonymous(_ context.Context, _ string) (*domain.Cart, error) {
	return s.activeCart, s.activeErr
}

func (s *stubRepo) AssignCustomerToAnonymous(_ context.Context, anonymousID, customerID string) (*domain.Cart, error) {
	s.assignedAnon = anonymousID
	s.assignedCust = customerID
	return s.activeCart, s.activeErr
}

func (s *stubRepo) AddLine(_ context.Context, cartID string, product domain.Product, quantity int) error {
	s.lastAddCartID = cartID
	s.lastAddProd = product
	s.lastAddQty = quantity
	return s.addErr
}

func (s *stubRepo) SetLineQuantity(_ context.Context, _, productID string, quantity int) error {
	s.lastSetProd = productID
	s.lastSetQty = quantity
	return s.setErr
}

func (s *stubRepo) RemoveLine(_ context.Context, _, productID string) error {
	s.lastRemoved = productID
	return nil
}

func (s *stubRepo) Clear(_ context.Context, cartID string) error {
	s.cleared = append(s.cleared, cartID)
	return nil
}

type stubProductRepo struct {
	product *domain.Product
	err     error
	lastID  string
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func newTestService(repo *stubRepo, products *stubProductRepo) *Service {
	return &Service{repo: repo, productRepo: products, pricing: domain.DefaultPricing}
}

var shopper = Shopper{CustomerID: "cust-1"}

func TestActiveCartCreatesOnFirstUse(t *testing.T) {
	repo := &stubRepo{
		activeErr:   domain.ErrNotFound,
		createdCart: &domain.Cart{ID: "cart-1", State: "active"},
	}
	svc := newTestService(repo, &stubProductRepo{})

	cart, err := svc.ActiveCart(context.Background(), shopper)
	if err != nil {
		t.Fatalf("ActiveCart: %v", err)
	}
	if cart.ID != "cart-1" {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if repo.created == nil || repo.created.CustomerID == nil || *repo.created.CustomerID != "cust-1" {
		t.Fatalf("cart must be created for the customer, got %+v", repo.created)
	}
}

func TestActiveCartForAnonymousShopper(t *testing.T) {
	repo := &stubRepo{activeCart: &domain.Cart{ID: "cart-9", State: "active"}}
	svc := newTestService(repo, &stubProductRepo{})

	cart, err := svc.ActiveCart(context.Background(), Shopper{AnonymousID: "anon-1"})
	if err != nil {
		t.Fatalf("ActiveCart: %v", err)
	}
	if cart.ID != "cart-9" {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo, &stubProductRepo{})
	for _, qty := range []int{0, -3} {
		if _, err := svc.AddItem(context.Background(), shopper, "p1", qty); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if repo.lastAddCartID != "" {
		t.Fatal("rejected add must not reach the repository")
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubProductRepo{err: domain.ErrNotFound})
	if _, err := svc.AddItem(context.Background(), shopper, "missing", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	repo := &stubRepo{activeCart: &domain.Cart{ID: "cart-1", State: "active"}}
	products := &stubProductRepo{product: &domain.Product{ID: "p1", Name: "Desk Lamp", PriceCents: 89_00}}
	svc := newTestService(repo, products)

	if _, err := svc.AddItem(context.Background(), shopper, "p1", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if repo.lastAddCartID != "cart-1" || repo.lastAddQty != 2 {
		t.Fatalf("unexpected add call cart=%s qty=%d", repo.lastAddCartID, repo.lastAddQty)
	}
	if repo.lastAddProd.PriceCents != 89_00 {
		t.Fatalf("product price must be snapshotted, got %+v", repo.lastAddProd)
	}
}

func TestSetQuantityPassesThrough(t *testing.T) {
	repo := &stubRepo{activeCart: &domain.Cart{ID: "cart-1", State: "active"}}
	svc := newTestService(repo, &stubProductRepo{})

	if _, err := svc.SetQuantity(context.Background(), shopper, "p1", 4); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if repo.lastSetProd != "p1" || repo.lastSetQty != 4 {
		t.Fatalf("unexpected set call %s %d", repo.lastSetProd, repo.lastSetQty)
	}
}

func TestSetQuantityLineNotFound(t *testing.T) {
	repo := &stubRepo{
		activeCart: &domain.Cart{ID: "cart-1", State: "active"},
		setErr:     domain.ErrLineNotFound,
	}
	svc := newTestService(repo, &stubProductRepo{})
	if _, err := svc.SetQuantity(context.Background(), shopper, "missing", 1); !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	repo := &stubRepo{activeCart: &domain.Cart{ID: "cart-1", State: "active"}}
	svc := newTestService(repo, &stubProductRepo{})
	ctx := context.Background()

	if _, err := svc.RemoveItem(ctx, shopper, "p1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if repo.lastRemoved != "p1" {
		t.Fatalf("unexpected remove %s", repo.lastRemoved)
	}

	if _, err := svc.ClearCart(ctx, shopper); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}
	if len(repo.cleared) != 1 || repo.cleared[0] != "cart-1" {
		t.Fatalf("unexpected clear calls %v", repo.cleared)
	}
}

func TestQuoteUsesDefaultPricing(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubProductRepo{})
	cart := &domain.Cart{Lines: []domain.CartLine{{ProductID: "p1", UnitPriceCents: 50_00, Quantity: 2}}}
	q := svc.Quote(cart)
	if q.TotalCents != 117_99 {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestClaimGuestCart(t *testing.T) {
	repo := &stubRepo{activeCart: &domain.Cart{ID: "cart-1", State: "active"}}
	svc := newTestService(repo, &stubProductRepo{})

	if _, err := svc.Claim(context.Background(), "anon-1", "cust-1"); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if repo.assignedAnon != "anon-1" || repo.assignedCust != "cust-1" {
		t.Fatalf("unexpected claim %s %s", repo.assignedAnon, repo.assignedCust)
	}
}
