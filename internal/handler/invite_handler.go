package handler

import (
	"lobby-server/internal/model"
	"lobby-server/internal/service"
	"lobby-server/pkg/jwt"
	"lobby-server/pkg/response"

	"github.com/gin-gonic/gin"
)

// InviteHandler 对局邀请处理器
type InviteHandler struct {
	service *service.InviteService
}

// NewInviteHandler 创建InviteHandler实例
func NewInviteHandler(s *service.InviteService) *InviteHandler {
	return &InviteHandler{service: s}
}

// CreateInvite 发起对局邀请，返回 [邀请方链接, 被邀请方链接]
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	type req struct {
		Inviter       string `json:"inviter" binding:"required"`
		Invitee       string `json:"invitee" binding:"required"`
		Turn          string `json:"turn"`
		InviterRating int    `json:"inviter_rating"`
		InviteeRating int    `json:"invitee_rating"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if r.Inviter != jwt.GetUsername(c) {
		response.Forbidden(c, "只能以自己的身份发起邀请")
		return
	}

	invite, err := h.service.CreateInvite(c.Request.Context(), service.CreateInviteInput{
		Inviter:       r.Inviter,
		Invitee:       r.Invitee,
		Turn:          r.Turn,
		InviterRating: r.InviterRating,
		InviteeRating: r.InviteeRating,
	})
	if err != nil {
		respondError(c, err, "创建邀请失败")
		return
	}
	response.SuccessWithMessage(c, "邀请已发送", &response.InviteLinksResponse{
		InviteID: invite.ID,
		Invites:  []string{invite.InviterLink, invite.InviteeLink},
	})
}

// SetStatus 更新邀请状态（忽略通知或拒绝邀请），仅邀请双方可操作
func (h *InviteHandler) SetStatus(c *gin.Context) {
	inviteID, ok := parseIDParam(c, "invite_id")
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
	invite, err := h.service.GetInvite(ctx, inviteID)
	if err != nil {
		respondError(c, err, "更新邀请状态失败")
		return
	}
	if caller := jwt.GetUsername(c); caller != invite.Inviter && caller != invite.Invitee {
		response.Forbidden(c, "只有邀请双方可以更新状态")
		return
	}

	invite, err = h.service.SetStatus(ctx, inviteID, r.Status)
	if err != nil {
		respondError(c, err, "更新邀请状态失败")
		return
	}
	response.SuccessWithMessage(c, "邀请状态已更新", invite)
}

// CheckStatus 轮询邀请是否被拒绝
// 邀请不存在、ID 非法等情况一律视为 SENT
func (h *InviteHandler) CheckStatus(c *gin.Context) {
	result := response.InviteStatusResponse{Status: string(model.InviteSent)}

	inviteID, err := parseUintParam(c.Param("invite_id"))
	if err != nil {
		response.Success(c, result)
		return
	}
	check, err := h.service.CheckStatus(c.Request.Context(), inviteID, c.Param("username"))
	if err != nil {
		respondError(c, err, "查询邀请状态失败")
		return
	}

	result.Status = string(check.Status)
	result.Notification = check.Invite
	response.Success(c, result)
}

// ListNotifications 获取用户待回应的邀请
func (h *InviteHandler) ListNotifications(c *gin.Context) {
	invites, err := h.service.ListForInvitee(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err, "获取邀请通知失败")
		return
	}
	if invites == nil {
		invites = []model.Invite{}
	}
	response.Success(c, invites)
}

// UnreadCount 获取用户待回应邀请数量
func (h *InviteHandler) UnreadCount(c *gin.Context) {
	username := c.Param("username")
	count, err := h.service.UnreadCount(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, "获取未读邀请数量失败")
		return
	}
	response.Success(c, gin.H{
		"username":     username,
		"unread_count": count,
	})
}
