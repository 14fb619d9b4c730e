package response

import (
	"net/http"

	"lobby-server/internal/model"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`            // 状态码：0表示成功，其他与HTTP状态码一致
	Message string      `json:"message"`         // 响应消息
	Data    interface{} `json:"data,omitempty"`  // 响应数据
	Error   string      `json:"error,omitempty"` // 错误详情（仅在开发环境显示）
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应，HTTP状态码与 code 一致，便于客户端区分不同失败
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带错误详情的错误响应
func ErrorWithDetails(c *gin.Context, code int, message string, err error) {
	response := Response{
		Code:    code,
		Message: message,
	}

	// 在开发环境下显示错误详情
	if gin.Mode() == gin.DebugMode && err != nil {
		response.Error = err.Error()
	}

	c.JSON(code, response)
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403错误
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409错误
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// UserProfile 用户公开资料（不含密码哈希）
type UserProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// FilterUserInfo 过滤用户信息，隐藏敏感字段
func FilterUserInfo(user *model.User) *UserProfile {
	if user == nil {
		return nil
	}

	return &UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Rating:   user.Rating,
	}
}

// FilterUserList 批量过滤用户信息，保持顺序与重复项
func FilterUserList(users []model.User) []*UserProfile {
	profiles := make([]*UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, FilterUserInfo(&users[i]))
	}
	return profiles
}

// LoginResponse 登录响应
type LoginResponse struct {
	User        *UserProfile `json:"user"`
	AccessToken string       `json:"access_token"`
}

// PendingRequestResponse 待处理好友申请
type PendingRequestResponse struct {
	Sender    *UserProfile `json:"sender"`
	RequestID uint         `json:"request_id"`
}

// FriendRequestResponse 好友申请
type FriendRequestResponse struct {
	ID         uint   `json:"id"`
	SenderID   uint   `json:"sender_id"`
	ReceiverID uint   `json:"receiver_id"`
	Status     string `json:"status"`
}

// FilterFriendRequest 转换好友申请
func FilterFriendRequest(r *model.FriendRequest) *FriendRequestResponse {
	if r == nil {
		return nil
	}
	return &FriendRequestResponse{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Status:     string(r.Status),
	}
}

// InviteLinksResponse 创建邀请的响应：[邀请方链接, 被邀请方链接]
type InviteLinksResponse struct {
	InviteID uint     `json:"invite_id"`
	Invites  []string `json:"invites"`
}

// InviteStatusResponse 邀请状态轮询响应
type InviteStatusResponse struct {
	Status       string        `json:"status"`
	Notification *model.Invite `json:"notification,omitempty"`
}
