package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/tlemaire/formation-backend/services"
)

func durationDispatcher(c *gin.Context) *services.DurationUpdateDispatcher {
	return c.MustGet("duration_dispatcher").(*services.DurationUpdateDispatcher)
}

func durationCalc(c *gin.Context) *services.DurationCalculationService {
	return c.MustGet("duration_calc").(*services.DurationCalculationService)
}

func durationStore(c *gin.Context) services.DurationStore {
	return c.MustGet("duration_store").(services.DurationStore)
}
