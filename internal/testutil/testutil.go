// Package testutil 提供测试用的内存数据库与数据构造函数
package testutil

import (
	"context"
	"testing"

	"lobby-server/config"
	"lobby-server/internal/model"
	"lobby-server/pkg/db"

	"gorm.io/gorm"
)

// NewTestDB 打开一个已迁移的 sqlite 内存库，测试结束时关闭
// 内存库只在单个连接内可见，因此连接池限制为 1
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		Database: ":memory:",
		MaxOpen:  1,
		MaxIdle:  1,
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(gdb, model.AllModels()...); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// CreateUser 直接写入一个用户（密码哈希为占位值）
func CreateUser(t *testing.T, gdb *gorm.DB, username string, rating int) *model.User {
	t.Helper()

	u := &model.User{Username: username, PasswordHash: "x", Rating: rating}
	if err := gdb.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

// CreateFriendRequest 直接写入一条好友申请
func CreateFriendRequest(t *testing.T, gdb *gorm.DB, senderID, receiverID uint, status model.FriendRequestStatus) *model.FriendRequest {
	t.Helper()

	r := &model.FriendRequest{SenderID: senderID, ReceiverID: receiverID, Status: status}
	if err := gdb.Create(r).Error; err != nil {
		t.Fatalf("creating friend request: %v", err)
	}
	return r
}

// CreateInvite 直接写入一条邀请
func CreateInvite(t *testing.T, gdb *gorm.DB, inviter, invitee string, status model.InviteStatus) *model.Invite {
	t.Helper()

	inv := &model.Invite{Inviter: inviter, Invitee: invitee, Status: status}
	if err := gdb.Create(inv).Error; err != nil {
		t.Fatalf("creating invite: %v", err)
	}
	return inv
}
