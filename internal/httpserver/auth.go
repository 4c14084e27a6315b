package httpserver

import (
	"context"
	"net/http"
	"strings"

	"elitestore-api/internal/domain"
	cartsvc "elitestore-api/internal/service/cart"
	customersvc "elitestore-api/internal/service/customer"
	ordersvc "elitestore-api/internal/service/order"

	"github.com/gin-gonic/gin"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type cartService interface {
	ActiveCart(ctx context.Context, shopper cartsvc.Shopper) (*domain.Cart, error)
	AddItem(ctx context.Context, shopper cartsvc.Shopper, productID string, qty int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, shopper cartsvc.Shopper, productID string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, shopper cartsvc.Shopper, productID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, shopper cartsvc.Shopper) (*domain.Cart, error)
	Quote(cart *domain.Cart) domain.Totals
	Claim(ctx context.Context, anonymousID, customerID string) (*domain.Cart, error)
}

type orderService interface {
	Checkout(ctx context.Context, actor domain.Actor, in ordersvc.CheckoutInput) (*domain.Order, error)
	Transition(ctx context.Context, actor domain.Actor, orderID string, next domain.OrderStatus, in ordersvc.TransitionInput) (*domain.Order, error)
	Get(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	Summarize(ctx context.Context, actor domain.Actor) (*ordersvc.Stats, error)
}

type customerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

type anonymousService interface {
	Issue(ctx context.Context) (accessToken, anonymousID string, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
	AccessTTLSeconds() int
}

// Deps bundles the services the router needs.
type Deps struct {
	ProductSvc   productService
	CategorySvc  categoryService
	CartSvc      cartService
	OrderSvc     orderService
	CustomerSvc  customerService
	AnonymousSvc anonymousService
	AdminEmails  []string
	CORSOrigins  []string
}

const (
	actorKey   = "auth.actor"
	shopperKey = "auth.shopper"
)

// authMiddleware resolves the bearer token to either a signed-in customer or
// an anonymous shopping session. Customer tokens are checked first; the admin
// capability comes from the configured email allow list, never from the token.
func authMiddleware(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		if customer, err := deps.CustomerSvc.LookupByToken(c.Request.Context(), token); err == nil {
			actor := domain.Actor{
				ID:      customer.ID,
				Email:   customer.Email,
				IsAdmin: isAdminEmail(deps.AdminEmails, customer.Email),
			}
			c.Set(actorKey, actor)
			c.Set(shopperKey, cartsvc.Shopper{CustomerID: customer.ID})
			c.Next()
			return
		}

		if anonymousID, err := deps.AnonymousSvc.LookupByToken(c.Request.Context(), token); err == nil {
			c.Set(shopperKey, cartsvc.Shopper{AnonymousID: anonymousID})
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
}

// customerRequired gates routes that need a signed-in customer.
func customerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := actorFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		c.Next()
	}
}

// adminRequired gates the admin dashboard routes.
func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		if !actor.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

func shopperFrom(c *gin.Context) (cartsvc.Shopper, bool) {
	v, ok := c.Get(shopperKey)
	if !ok {
		return cartsvc.Shopper{}, false
	}
	shopper, ok := v.(cartsvc.Shopper)
	return shopper, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func isAdminEmail(allowed []string, email string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), email) {
			return true
		}
	}
	return false
}
