package controller

import (
	"context"
	"time"

	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

func (c *HealthController) HealthCheck(ctx *gin.Context) {
	database := "up"
	sqlDB, err := c.DB.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		err = sqlDB.PingContext(pingCtx)
		cancel()
	}
	if err != nil {
		database = "down"
		util.LogError(ctx, "Database ping failed", err)
		util.ServiceUnavailable(ctx, gin.H{
			"status":     "degraded",
			"components": gin.H{"database": database},
		})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": gin.H{"database": database},
	})
}
