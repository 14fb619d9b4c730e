package handler

import (
	"lobby-server/internal/service"
	"lobby-server/pkg/response"

	"github.com/gin-gonic/gin"
)

// RatingHandler 积分处理器
type RatingHandler struct {
	service *service.RatingService
}

// NewRatingHandler 创建RatingHandler实例
func NewRatingHandler(s *service.RatingService) *RatingHandler {
	return &RatingHandler{service: s}
}

// ApplyDelta 对局结束后调整积分，score 可为负数，积分最低为0
func (h *RatingHandler) ApplyDelta(c *gin.Context) {
	type req struct {
		Score *int `json:"score" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rating, err := h.service.ApplyDelta(c.Request.Context(), c.Param("username"), *r.Score)
	if err != nil {
		respondError(c, err, "更新积分失败")
		return
	}
	response.SuccessWithMessage(c, "积分已更新", gin.H{"rating": rating})
}
