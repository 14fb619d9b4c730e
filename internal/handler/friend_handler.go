package handler

import (
	"lobby-server/internal/service"
	"lobby-server/pkg/jwt"
	"lobby-server/pkg/response"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友处理器
type FriendHandler struct {
	service *service.FriendService
}

// NewFriendHandler 创建FriendHandler实例
func NewFriendHandler(s *service.FriendService) *FriendHandler {
	return &FriendHandler{service: s}
}

// SendRequest 发送好友申请（发送者必须是当前用户）
func (h *FriendHandler) SendRequest(c *gin.Context) {
	type req struct {
		SenderID   uint `json:"sender_id" binding:"required"`
		ReceiverID uint `json:"receiver_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if r.SenderID != jwt.GetUserID(c) {
		response.Forbidden(c, "只能以自己的身份发送好友申请")
		return
	}

	request, err := h.service.SendRequest(c.Request.Context(), r.SenderID, r.ReceiverID)
	if err != nil {
		respondError(c, err, "发送好友申请失败")
		return
	}
	response.SuccessWithMessage(c, "好友申请已发送", response.FilterFriendRequest(request))
}

// Respond 处理好友申请（只有接收者可以处理）
func (h *FriendHandler) Respond(c *gin.Context) {
	requestID, ok := parseIDParam(c, "request_id")
	if !ok {
		return
	}
	type req struct {
		Status string `json:"status" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	request, err := h.service.GetRequest(ctx, requestID)
	if err != nil {
		respondError(c, err, "处理好友申请失败")
		return
	}
	if request.ReceiverID != jwt.GetUserID(c) {
		response.Forbidden(c, "只有接收者可以处理该申请")
		return
	}

	request, err = h.service.Respond(ctx, requestID, r.Status)
	if err != nil {
		respondError(c, err, "处理好友申请失败")
		return
	}
	response.SuccessWithMessage(c, "好友申请已处理", response.FilterFriendRequest(request))
}

// ListPending 获取用户收到的待处理好友申请
func (h *FriendHandler) ListPending(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pending, err := h.service.ListPendingIncoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "获取好友申请失败")
		return
	}

	result := make([]response.PendingRequestResponse, 0, len(pending))
	for _, p := range pending {
		result = append(result, response.PendingRequestResponse{
			Sender:    response.FilterUserInfo(p.Sender),
			RequestID: p.RequestID,
		})
	}
	response.Success(c, result)
}

// ListFriends 获取好友列表
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	friends, err := h.service.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "获取好友列表失败")
		return
	}
	response.Success(c, response.FilterUserList(friends))
}

// Search 按用户名精确搜索用户
func (h *FriendHandler) Search(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}
	user, err := h.service.SearchByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, "搜索用户失败")
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}
