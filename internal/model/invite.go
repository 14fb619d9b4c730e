package model

import (
	"fmt"
	"strings"
	"time"
)

// InviteStatus 对局邀请状态
type InviteStatus string

const (
	InviteSent     InviteStatus = "SENT"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteRejected InviteStatus = "REJECTED"
)

// ParseInviteStatus 解析状态字符串（忽略大小写与首尾空白）
func ParseInviteStatus(s string) (InviteStatus, error) {
	switch status := InviteStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case InviteSent, InviteAccepted, InviteRejected:
		return status, nil
	}
	return "", fmt.Errorf("unknown invite status %q", s)
}

// Invite 对局邀请
// ID 同时作为对战房间号；两条链接分别发给邀请方与被邀请方

type Invite struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Inviter     string       `gorm:"type:varchar(20);not null;index;comment:邀请方用户名" json:"inviter"`
	Invitee     string       `gorm:"type:varchar(20);not null;index;comment:被邀请方用户名" json:"invitee"`
	InviterLink string       `gorm:"type:varchar(512);default:'';comment:邀请方链接" json:"inviter_link"`
	InviteeLink string       `gorm:"type:varchar(512);default:'';comment:被邀请方链接" json:"invitee_link"`
	Status      InviteStatus `gorm:"type:varchar(16);not null;default:'SENT';index;comment:邀请状态" json:"status"`
	CreatedAt   time.Time    `gorm:"comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"comment:更新时间" json:"updated_at"`
}

func (Invite) TableName() string { return "invite" }
