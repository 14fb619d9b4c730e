package model

import (
	"fmt"
	"strings"
	"time"
)

// FriendRequestStatus 好友申请状态
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "PENDING"
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestRejected FriendRequestStatus = "REJECTED"
)

// ParseFriendRequestStatus 解析状态字符串（忽略大小写与首尾空白）
func ParseFriendRequestStatus(s string) (FriendRequestStatus, error) {
	switch status := FriendRequestStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case FriendRequestPending, FriendRequestAccepted, FriendRequestRejected:
		return status, nil
	}
	return "", fmt.Errorf("unknown friend request status %q", s)
}

// FriendRequest 有向好友申请 sender -> receiver
// 好友关系不单独存储：任一方向存在 ACCEPTED 申请即互为好友

type FriendRequest struct {
	ID         uint                `gorm:"primaryKey"`
	SenderID   uint                `gorm:"not null;index;comment:发送者ID"`
	ReceiverID uint                `gorm:"not null;index;comment:接收者ID"`
	Status     FriendRequestStatus `gorm:"type:varchar(16);not null;index;comment:申请状态"`
	CreatedAt  time.Time           `gorm:"comment:创建时间"`
	UpdatedAt  time.Time           `gorm:"comment:更新时间"`
}

func (FriendRequest) TableName() string { return "friendrequest" }

// OtherParty 返回申请中 userID 之外的另一方
func (r *FriendRequest) OtherParty(userID uint) uint {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}
