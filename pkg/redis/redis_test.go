package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestHealthCheck(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer c.Close()
	assert.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))

	var nilClient *Client
	assert.Error(t, nilClient.HealthCheck(context.Background()))
	assert.NoError(t, nilClient.Close())
}

func TestUnreadInvites(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	count, err := c.GetUnreadInvites(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), count, "miss")

	require.NoError(t, c.SetUnreadInvites(ctx, "bob", 0))
	require.NoError(t, c.IncrUnreadInvites(ctx, "bob"))
	require.NoError(t, c.IncrUnreadInvites(ctx, "bob"))
	count, err = c.GetUnreadInvites(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, UnreadInviteTTL, mr.TTL(UnreadInviteKeyPrefix+"bob"))

	require.NoError(t, c.DecrUnreadInvites(ctx, "bob"))
	require.NoError(t, c.DecrUnreadInvites(ctx, "bob"))
	assert.False(t, mr.Exists(UnreadInviteKeyPrefix+"bob"), "zero deletes the key")

	require.NoError(t, c.SetUnreadInvites(ctx, "amy", 4))
	count, err = c.GetUnreadInvites(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	require.NoError(t, c.SetUnreadInvites(ctx, "cat", 1))
	mr.FastForward(UnreadInviteTTL + time.Second)
	count, err = c.GetUnreadInvites(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), count, "expired")
}

func TestUnreadInvites_MissingKeyIsNotCreated(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	key := UnreadInviteKeyPrefix + "bob"

	// 计数丢失后自增不能凭空建立一个偏小的计数
	require.NoError(t, c.IncrUnreadInvites(ctx, "bob"))
	assert.False(t, mr.Exists(key))

	require.NoError(t, c.DecrUnreadInvites(ctx, "bob"))
	assert.False(t, mr.Exists(key))

	count, err := c.GetUnreadInvites(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), count)
}

func TestGetUnreadInvites_Corrupt(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, mr.Set(UnreadInviteKeyPrefix+"bob", "abc"))

	_, err := c.GetUnreadInvites(context.Background(), "bob")
	assert.Error(t, err)
}

func TestReplaceUnreadInvites(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetUnreadInvites(ctx, "stale", 3))
	require.NoError(t, c.SetUnreadInvites(ctx, "bob", 9))

	require.NoError(t, c.ReplaceUnreadInvites(ctx, map[string]int64{"bob": 2, "amy": 1}))

	assert.False(t, mr.Exists(UnreadInviteKeyPrefix+"stale"))
	for name, want := range map[string]int64{"bob": 2, "amy": 1} {
		count, err := c.GetUnreadInvites(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, want, count, name)
	}

	require.NoError(t, c.ReplaceUnreadInvites(ctx, nil))
	assert.Empty(t, mr.Keys())
}

func TestPresence(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetOnline(ctx, "bob"))
	require.NoError(t, c.SetOnline(ctx, "amy"))

	users, err := c.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"amy", "bob"}, users)

	list, err := c.OnlinePresence(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "amy", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
	assert.False(t, list[1].LastSeen.IsZero())

	p, err := c.GetPresence(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "online", p.Status)

	require.NoError(t, c.SetOffline(ctx, "bob"))
	p, err = c.GetPresence(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, p)

	// amy 的心跳停止，状态过期后不再出现在详情中，随后被清理
	mr.FastForward(PresenceTTL + time.Second)
	list, err = c.OnlinePresence(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	removed, err := c.CleanExpiredPresence(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	users, err = c.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// 过期后刷新会重新写入
	require.NoError(t, c.RefreshPresence(ctx, "amy"))
	users, err = c.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"amy"}, users)
}
