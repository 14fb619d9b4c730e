package handler

import (
	"context"

	"lobby-server/internal/service"
	redisPkg "lobby-server/pkg/redis"
	"lobby-server/pkg/response"

	"github.com/gin-gonic/gin"
)

// OnlineLister 在线用户来源（Redis实现见 pkg/redis）
type OnlineLister interface {
	OnlinePresence(ctx context.Context) ([]redisPkg.PresenceData, error)
}

type UserHandler struct {
	service *service.UserService
	online  OnlineLister
}

// NewUserHandler online 可为 nil，此时在线列表为空
func NewUserHandler(s *service.UserService, online OnlineLister) *UserHandler {
	return &UserHandler{service: s, online: online}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册
func (h *UserHandler) Register(c *gin.Context) {
	var r credentialsRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.Register(c.Request.Context(), r.Username, r.Password)
	if err != nil {
		respondError(c, err, "注册失败")
		return
	}

	response.SuccessWithMessage(c, "注册成功", response.FilterUserInfo(user))
}

// Login 用户登录
func (h *UserHandler) Login(c *gin.Context) {
	var r credentialsRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.service.Login(c.Request.Context(), r.Username, r.Password)
	if err != nil {
		respondError(c, err, "登录失败")
		return
	}

	response.SuccessWithMessage(c, "登录成功", &response.LoginResponse{
		User:        response.FilterUserInfo(user),
		AccessToken: token,
	})
}

// ListUsers 获取全部用户（不含密码哈希）
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取用户列表失败")
		return
	}
	response.Success(c, response.FilterUserList(users))
}

// GetUser 根据ID获取用户
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "获取用户失败")
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}

// OnlineUsers 获取在线用户及最近活跃时间
func (h *UserHandler) OnlineUsers(c *gin.Context) {
	users := []redisPkg.PresenceData{}
	if h.online != nil {
		list, err := h.online.OnlinePresence(c.Request.Context())
		if err != nil {
			respondError(c, err, "获取在线用户失败")
			return
		}
		users = append(users, list...)
	}

	response.Success(c, gin.H{
		"online_count": len(users),
		"users":        users,
	})
}
