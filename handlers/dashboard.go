package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetProductDashboard returns the complete rating snapshot for a product:
// aggregate statistics, the dense rating histogram, per-category averages and
// every review with its comment tree
func GetProductDashboard(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	snapshot, err := Ratings.ProductDashboard(c.Request.Context(), productID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
