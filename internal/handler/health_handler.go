package handler

import (
	"context"
	"net/http"
	"time"

	dbPkg "lobby-server/pkg/db"
	"lobby-server/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthChecker 外部依赖的健康检查
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ConnectionCounter 当前WebSocket连接数
type ConnectionCounter interface {
	OnlineCount() int
}

// HealthHandler 健康检查
type HealthHandler struct {
	db    *gorm.DB
	redis HealthChecker
	conns ConnectionCounter
}

// NewHealthHandler redis 可为 nil（未启用）
func NewHealthHandler(db *gorm.DB, redis HealthChecker, conns ConnectionCounter) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, conns: conns}
}

// Health 数据库与Redis状态，任一异常时返回503
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "up"
	if err := dbPkg.HealthCheck(ctx, h.db); err != nil {
		dbStatus = "down"
		status = "degraded"
	}
	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "up"
		if err := h.redis.HealthCheck(ctx); err != nil {
			redisStatus = "down"
			status = "degraded"
		}
	}

	data := gin.H{
		"status":   status,
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now().Format(time.RFC3339),
	}
	if h.conns != nil {
		data["connections"] = h.conns.OnlineCount()
	}
	if status != "ok" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "服务异常",
			Data:    data,
		})
		return
	}
	response.Success(c, data)
}
