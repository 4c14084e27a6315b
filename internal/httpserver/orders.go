package httpserver

import (
	"net/http"

	"elitestore-api/internal/domain"
	ordersvc "elitestore-api/internal/service/order"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	ShippingInfo domain.ShippingInfo `json:"shippingInfo" binding:"required"`
}

func checkoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := deps.OrderSvc.Checkout(c.Request.Context(), actor, ordersvc.CheckoutInput{
			ShippingInfo: req.ShippingInfo,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listMyOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		orders, err := deps.OrderSvc.ListForCustomer(c.Request.Context(), actor.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
	}
}

func getMyOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		order, err := deps.OrderSvc.Get(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func cancelOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		order, err := deps.OrderSvc.Transition(c.Request.Context(), actor, c.Param("id"), domain.OrderCancelled, ordersvc.TransitionInput{})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func adminListOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := actorFrom(c)
		orders, err := deps.OrderSvc.ListAll(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
	}
}

func adminOrderStatsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := actorFrom(c)
		stats, err := deps.OrderSvc.Summarize(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

type updateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

func adminUpdateStatusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := actorFrom(c)
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next, err := domain.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := deps.OrderSvc.Transition(c.Request.Context(), actor, c.Param("id"), next, ordersvc.TransitionInput{
			TrackingNumber: req.TrackingNumber,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
