package logger

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader 请求ID响应头
	RequestIDHeader = "X-Request-ID"
	// ContextRequestIDKey 请求ID在gin.Context中的键名
	ContextRequestIDKey = "request_id"
)

// RequestIDMiddleware 为每个请求分配请求ID，沿用客户端传入的值
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID 从gin.Context中获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextRequestIDKey)
}

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID, _ := param.Keys[ContextRequestIDKey].(string)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", param.Method),
			zap.String("path", param.Path),
			zap.String("ip", param.ClientIP),
			zap.Int("status", param.StatusCode),
			zap.Duration("latency", param.Latency),
			zap.String("user_agent", param.Request.UserAgent()),
		}
		if param.ErrorMessage != "" {
			fields = append(fields, zap.String("error", param.ErrorMessage))
		}

		// 根据状态码选择日志级别
		switch {
		case param.StatusCode >= 500:
			Error("HTTP请求错误", fields...)
		case param.StatusCode >= 400:
			Warn("HTTP请求警告", fields...)
		default:
			Info("HTTP请求", fields...)
		}
		return ""
	})
}

// ErrorLoggerMiddleware 错误日志中间件
func ErrorLoggerMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		Error("HTTP请求发生panic",
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.String("error", fmt.Sprint(recovered)),
		)
		c.AbortWithStatus(500)
	})
}
