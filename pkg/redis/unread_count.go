package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// 未读邀请计数相关常量
const (
	UnreadInviteKeyPrefix = "lobby:invites:unread:" // 未读邀请计数key前缀
	UnreadInviteTTL       = 24 * time.Hour          // 计数过期时间，过期后回源数据库
)

func unreadKey(username string) string {
	return UnreadInviteKeyPrefix + username
}

// incrIfExists 仅在计数key存在时自增并续期
// key缺失说明计数未建立或已丢失，由下一次读取回源数据库
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
local n = redis.call("INCR", KEYS[1])
redis.call("EXPIRE", KEYS[1], ARGV[1])
return n
`)

// decrIfExists 仅在计数key存在时自减，减到0及以下时删除key
var decrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
local n = redis.call("DECR", KEYS[1])
if n <= 0 then
	redis.call("DEL", KEYS[1])
	return 0
end
return n
`)

// IncrUnreadInvites 增加用户未读邀请计数，计数不存在时不做处理
func (c *Client) IncrUnreadInvites(ctx context.Context, username string) error {
	ttl := int64(UnreadInviteTTL / time.Second)
	if err := incrIfExists.Run(ctx, c.rdb, []string{unreadKey(username)}, ttl).Err(); err != nil {
		return fmt.Errorf("增加未读邀请计数失败: %w", err)
	}
	return nil
}

// DecrUnreadInvites 减少用户未读邀请计数，计数不存在时不做处理
func (c *Client) DecrUnreadInvites(ctx context.Context, username string) error {
	if err := decrIfExists.Run(ctx, c.rdb, []string{unreadKey(username)}).Err(); err != nil {
		return fmt.Errorf("减少未读邀请计数失败: %w", err)
	}
	return nil
}

// GetUnreadInvites 获取用户未读邀请计数
// key不存在时返回-1，表示需要从数据库获取
func (c *Client) GetUnreadInvites(ctx context.Context, username string) (int64, error) {
	result, err := c.rdb.Get(ctx, unreadKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return 0, fmt.Errorf("获取未读邀请计数失败: %w", err)
	}

	count, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("解析未读邀请计数失败: %w", err)
	}

	return count, nil
}

// SetUnreadInvites 设置用户未读邀请计数（用于回源或重置）
func (c *Client) SetUnreadInvites(ctx context.Context, username string, count int64) error {
	if err := c.rdb.Set(ctx, unreadKey(username), count, UnreadInviteTTL).Err(); err != nil {
		return fmt.Errorf("设置未读邀请计数失败: %w", err)
	}
	return nil
}

// ReplaceUnreadInvites 用给定计数替换全部未读计数，不在 counts 中的key会被删除
func (c *Client) ReplaceUnreadInvites(ctx context.Context, counts map[string]int64) error {
	existing, err := c.scanKeys(ctx, UnreadInviteKeyPrefix+"*")
	if err != nil {
		return err
	}

	// 使用Pipeline批量操作
	pipe := c.rdb.Pipeline()
	for _, key := range existing {
		if _, keep := counts[key[len(UnreadInviteKeyPrefix):]]; !keep {
			pipe.Del(ctx, key)
		}
	}
	for username, count := range counts {
		pipe.Set(ctx, unreadKey(username), count, UnreadInviteTTL)
	}
	if pipe.Len() == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("批量设置未读邀请计数失败: %w", err)
	}

	return nil
}

// scanKeys 使用 SCAN 非阻塞地遍历匹配的key
func (c *Client) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		ks, next, err := c.rdb.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return nil, fmt.Errorf("扫描key失败: %w", err)
		}
		keys = append(keys, ks...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
