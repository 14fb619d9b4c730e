// Package job 定时任务：未读邀请计数校准与过期在线状态清理
package job

import (
	"context"
	"fmt"
	"time"

	"lobby-server/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Resyncer 用数据库结果校准未读计数
type Resyncer interface {
	ResyncUnreadCounts(ctx context.Context) (int, error)
}

// PresenceCleaner 清理已过期的在线状态
type PresenceCleaner interface {
	CleanExpiredPresence(ctx context.Context) (int, error)
}

// jobTimeout 单次任务的最长执行时间
const jobTimeout = time.Minute

// presenceSpec 在线状态清理周期
const presenceSpec = "@every 5m"

// Start 注册并启动定时任务，cleaner 可为 nil
// 返回的 cron 需在退出时 Stop
func Start(resyncSpec string, resync Resyncer, cleaner PresenceCleaner) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(resyncSpec, func() { RunResync(resync) }); err != nil {
		return nil, fmt.Errorf("registering resync job %q: %w", resyncSpec, err)
	}
	if cleaner != nil {
		if _, err := c.AddFunc(presenceSpec, func() { RunPresenceCleanup(cleaner) }); err != nil {
			return nil, fmt.Errorf("registering presence job: %w", err)
		}
	}

	c.Start()
	return c, nil
}

// RunResync 执行一次未读计数校准
func RunResync(resync Resyncer) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("开始校准未读邀请计数")
	n, err := resync.ResyncUnreadCounts(ctx)
	if err != nil {
		logger.Error("校准未读邀请计数失败", zap.Error(err))
		return
	}
	logger.Info("未读邀请计数校准完成", zap.Int("users", n))
}

// RunPresenceCleanup 执行一次在线状态清理
func RunPresenceCleanup(cleaner PresenceCleaner) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := cleaner.CleanExpiredPresence(ctx)
	if err != nil {
		logger.Error("清理过期在线状态失败", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("清理过期在线状态完成", zap.Int("removed", n))
	}
}
