package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lobby-server/internal/service"
	"lobby-server/pkg/logger"
	"lobby-server/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 按错误分类写出响应，未知错误记录日志并返回500
func respondError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "用户名或密码错误")
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	default:
		logger.Error(internalMsg,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", logger.GetRequestID(c)),
		)
		response.ErrorWithDetails(c, http.StatusInternalServerError, internalMsg, err)
	}
}

// parseIDParam 解析路径中的数字ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := parseUintParam(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func parseUintParam(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, strconv.IntSize)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(id), nil
}
