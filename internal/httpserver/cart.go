package httpserver

import (
	"errors"
	"net/http"

	"elitestore-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper, ok := shopperFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}
		cart, err := deps.CartSvc.ActiveCart(c.Request.Context(), shopper)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart, deps.CartSvc.Quote(cart)))
	}
}

func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper, ok := shopperFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		cart, err := deps.CartSvc.AddItem(c.Request.Context(), shopper, req.ProductID, req.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart, deps.CartSvc.Quote(cart)))
	}
}

func setCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper, ok := shopperFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cart, err := deps.CartSvc.SetQuantity(c.Request.Context(), shopper, c.Param("productId"), req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart, deps.CartSvc.Quote(cart)))
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper, ok := shopperFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}
		cart, err := deps.CartSvc.RemoveItem(c.Request.Context(), shopper, c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart, deps.CartSvc.Quote(cart)))
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper, ok := shopperFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}
		cart, err := deps.CartSvc.ClearCart(c.Request.Context(), shopper)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart, deps.CartSvc.Quote(cart)))
	}
}
