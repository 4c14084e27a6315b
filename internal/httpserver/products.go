package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := deps.ProductSvc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
	}
}

func getProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listCategoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := deps.CategorySvc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
