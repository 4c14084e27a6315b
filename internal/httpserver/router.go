package httpserver

import (
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires all storefront and admin routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = deps.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps))
	router.GET("/products/:id", getProductHandler(deps))
	router.GET("/categories", listCategoriesHandler(deps))

	router.POST("/signup", signupHandler(deps))
	router.POST("/login", loginHandler(deps))
	router.POST("/anonymous/token", anonymousTokenHandler(deps))

	me := router.Group("/me", authMiddleware(deps))
	{
		me.GET("/cart", getCartHandler(deps))
		me.POST("/cart/items", addCartItemHandler(deps))
		me.PUT("/cart/items/:productId", setCartItemHandler(deps))
		me.DELETE("/cart/items/:productId", removeCartItemHandler(deps))
		me.DELETE("/cart", clearCartHandler(deps))

		customer := me.Group("", customerRequired())
		{
			customer.POST("/orders", checkoutHandler(deps))
			customer.GET("/orders", listMyOrdersHandler(deps))
			customer.GET("/orders/:id", getMyOrderHandler(deps))
			customer.POST("/orders/:id/cancel", cancelOrderHandler(deps))
		}
	}

	adminGroup := router.Group("/admin", authMiddleware(deps), adminRequired())
	{
		adminGroup.GET("/orders", adminListOrdersHandler(deps))
		adminGroup.GET("/orders/stats", adminOrderStatsHandler(deps))
		adminGroup.POST("/orders/:id/status", adminUpdateStatusHandler(deps))
	}

	return router, nil
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CategorySvc == nil:
		return errors.New("category service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	case d.CustomerSvc == nil:
		return errors.New("customer service required")
	case d.AnonymousSvc == nil:
		return errors.New("anonymous service required")
	}
	return nil
}
