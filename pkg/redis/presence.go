package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceData 在线状态数据
type PresenceData struct {
	Username string    `json:"username"`
	Status   string    `json:"status"` // online/offline
	LastSeen time.Time `json:"last_seen"`
}

// 在线状态相关常量
const (
	PresenceKeyPrefix = "lobby:presence:user:" // 用户在线状态key前缀
	OnlineUsersKey    = "lobby:online:users"   // 在线用户集合key
	PresenceTTL       = 2 * time.Minute        // 在线状态TTL（2倍心跳周期）
)

func presenceKey(username string) string {
	return PresenceKeyPrefix + username
}

// SetOnline 标记用户在线
func (c *Client) SetOnline(ctx context.Context, username string) error {
	data, err := json.Marshal(PresenceData{
		Username: username,
		Status:   "online",
		LastSeen: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("序列化在线状态失败: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, presenceKey(username), data, PresenceTTL)
	pipe.SAdd(ctx, OnlineUsersKey, username)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("设置用户在线状态失败: %w", err)
	}

	return nil
}

// SetOffline 移除用户在线状态
func (c *Client) SetOffline(ctx context.Context, username string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, presenceKey(username))
	pipe.SRem(ctx, OnlineUsersKey, username)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("删除用户在线状态失败: %w", err)
	}

	return nil
}

// RefreshPresence 刷新用户在线状态（延长TTL），心跳时调用
func (c *Client) RefreshPresence(ctx context.Context, username string) error {
	ok, err := c.rdb.Expire(ctx, presenceKey(username), PresenceTTL).Result()
	if err != nil {
		return fmt.Errorf("刷新用户在线状态失败: %w", err)
	}
	if !ok {
		// 状态已过期，重新写入
		return c.SetOnline(ctx, username)
	}

	return nil
}

// GetPresence 获取用户在线状态，不在线时返回 nil
func (c *Client) GetPresence(ctx context.Context, username string) (*PresenceData, error) {
	data, err := c.rdb.Get(ctx, presenceKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取用户在线状态失败: %w", err)
	}

	var presence PresenceData
	if err := json.Unmarshal(data, &presence); err != nil {
		return nil, fmt.Errorf("反序列化在线状态失败: %w", err)
	}

	return &presence, nil
}

// OnlineUsers 获取在线用户名列表（按字母序）
func (c *Client) OnlineUsers(ctx context.Context) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, OnlineUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("获取在线用户列表失败: %w", err)
	}
	sort.Strings(members)
	return members, nil
}

// OnlinePresence 获取在线用户的状态详情（按用户名排序），状态已过期的成员跳过
func (c *Client) OnlinePresence(ctx context.Context) ([]PresenceData, error) {
	users, err := c.OnlineUsers(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]PresenceData, 0, len(users))
	for _, username := range users {
		p, err := c.GetPresence(ctx, username)
		if err != nil {
			return nil, err
		}
		if p != nil {
			list = append(list, *p)
		}
	}
	return list, nil
}

// CleanExpiredPresence 清理集合中状态已过期的用户，返回清理数量（定期任务）
func (c *Client) CleanExpiredPresence(ctx context.Context) (int, error) {
	members, err := c.rdb.SMembers(ctx, OnlineUsersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("获取在线用户列表失败: %w", err)
	}

	removed := 0
	for _, username := range members {
		exists, err := c.rdb.Exists(ctx, presenceKey(username)).Result()
		if err != nil {
			continue
		}
		// key不存在说明TTL已过期，从集合中移除
		if exists == 0 {
			if err := c.rdb.SRem(ctx, OnlineUsersKey, username).Err(); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}
