package httpserver

import (
	"errors"
	"net/http"

	"elitestore-api/internal/domain"
	customersvc "elitestore-api/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	// AnonymousID lets a guest keep their cart when they sign in.
	AnonymousID string `json:"anonymousId"`
}

func signupHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customersvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		customer, err := deps.CustomerSvc.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) || errors.Is(err, domain.ErrStorageUnavailable) {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

func loginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		customer, access, refresh, err := deps.CustomerSvc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}

		// If the shopper browsed as a guest, fold that cart into the account.
		// A missing guest cart is not an error.
		if req.AnonymousID != "" {
			if _, err := deps.CartSvc.Claim(c.Request.Context(), req.AnonymousID, customer.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				respondError(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"customer":      customer,
			"access_token":  access,
			"refresh_token": refresh,
			"expires_in":    deps.CustomerSvc.AccessTTLSeconds(),
		})
	}
}

func anonymousTokenHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, anonymousID, err := deps.AnonymousSvc.Issue(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"anonymous_id": anonymousID,
			"expires_in":   deps.AnonymousSvc.AccessTTLSeconds(),
		})
	}
}
