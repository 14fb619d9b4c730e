package model

import "time"

// User 用户模型
// 说明：密码仅存储哈希（PasswordHash，列名沿用 password），不存储明文
// Rating 为对局积分，最低为 0

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(20);not null;uniqueIndex;comment:用户名"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null;comment:密码哈希"`
	Rating       int       `gorm:"not null;default:0;comment:积分"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名（与原有库表 user 保持一致）
func (User) TableName() string { return "user" }

// UsernameMaxLength 用户名最大长度
const UsernameMaxLength = 20

// AllModels 需要自动迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{&User{}, &FriendRequest{}, &Invite{}}
}
