package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/services"
)

// DBMiddleware exposes the shared *gorm.DB to controllers via the context.
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

// DurationMiddleware exposes the duration services so controllers can
// dispatch recomputes and read cache-or-compute values.
func DurationMiddleware(dispatcher *services.DurationUpdateDispatcher, calc *services.DurationCalculationService, store services.DurationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("duration_dispatcher", dispatcher)
		c.Set("duration_calc", calc)
		c.Set("duration_store", store)
		c.Next()
	}
}
