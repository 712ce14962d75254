package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// HealthCheck godoc
// @Summary 存活检查
// @Description 不访问数据库
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary 就绪检查
// @Description 检查数据库（以及启用时的 Redis）连接
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (c *HealthController) Ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{"database": "up"}
	ready := true

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.PingContext(pingCtx) != nil {
		components["database"] = "down"
		ready = false
	}

	if c.Redis != nil {
		components["redis"] = "up"
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			components["redis"] = "down"
			ready = false
		}
	}

	if !ready {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "components": components})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "components": components})
}
