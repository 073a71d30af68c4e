package controllers

import (
	"context"
	"net/http"
	"time"

	"go-restaurant-pos/services"

	"github.com/gin-gonic/gin"
)

// parseDateRange reads the from/to query parameters as YYYY-MM-DD
// dates; the range is inclusive on both ends.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a YYYY-MM-DD date"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be a YYYY-MM-DD date"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// SalesSummaryReport aggregates payment amounts and distinct paying
// orders over the date range.
func SalesSummaryReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		from, to, ok := parseDateRange(c)
		if !ok {
			return
		}
		summary, err := lifecycle.SalesSummary(ctx, from, to)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// ProductSalesReport aggregates closed orders only, grouped by
// product, highest revenue first. Merged orders contribute through
// the surviving order they were folded into.
func ProductSalesReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		from, to, ok := parseDateRange(c)
		if !ok {
			return
		}
		rows, err := lifecycle.ProductSales(ctx, from, to)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if rows == nil {
			rows = []services.ProductSales{}
		}
		c.JSON(http.StatusOK, rows)
	}
}
