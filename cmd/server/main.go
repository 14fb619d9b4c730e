package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lobby-server/config"
	"lobby-server/internal/handler"
	"lobby-server/internal/job"
	"lobby-server/internal/model"
	"lobby-server/internal/repository"
	"lobby-server/internal/service"
	dbPkg "lobby-server/pkg/db"
	"lobby-server/pkg/jwt"
	"lobby-server/pkg/logger"
	"lobby-server/pkg/redis"
	"lobby-server/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== 对战大厅服务启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	gdb, err := dbPkg.Open(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.Close(gdb); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(gdb, model.AllModels()...); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 Redis（可选，失败时降级为直接查库）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis不可用，未读计数与在线状态将降级", zap.Error(err))
			rdb = nil
		} else {
			log.Info("Redis连接成功")
			defer rdb.Close()
		}
	}

	// 4. 初始化业务服务
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	wsManager := websocket.NewManager()

	userRepo := repository.NewUserRepository(gdb)
	requestRepo := repository.NewFriendRequestRepository(gdb)
	inviteRepo := repository.NewInviteRepository(gdb)

	inviteOpts := []service.InviteOption{service.WithPusher(wsManager)}
	if rdb != nil {
		inviteOpts = append(inviteOpts, service.WithUnreadCounter(rdb))
	}

	userSvc := service.NewUserService(userRepo, jwtSvc)
	friendSvc := service.NewFriendService(requestRepo, userRepo)
	inviteSvc := service.NewInviteService(gdb, inviteRepo, userRepo, cfg.Invite.LinkBaseURL, inviteOpts...)
	ratingSvc := service.NewRatingService(gdb, userRepo)

	// nil 指针不能直接赋给接口，否则接口判空失效
	var (
		online   handler.OnlineLister
		health   handler.HealthChecker
		presence websocket.Presence
		cleaner  job.PresenceCleaner
	)
	if rdb != nil {
		online, health, presence, cleaner = rdb, rdb, rdb, rdb
	}
	wsHandler := websocket.NewHandler(wsManager, jwtSvc, cfg.WebSocket, presence, inviteSvc)

	// 5. 定时任务
	if rdb != nil {
		// 启动时先校准一次
		job.RunResync(inviteSvc)
	}
	scheduler, err := job.Start(cfg.Invite.ResyncSpec, inviteSvc, cleaner)
	if err != nil {
		log.Fatal("定时任务启动失败", zap.Error(err))
	}
	defer scheduler.Stop()

	// 6. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 7. 创建Gin路由
	router := handler.NewRouter(handler.RouterConfig{
		JWT:          jwtSvc,
		AllowOrigins: cfg.Server.AllowOrigins,
		User:         handler.NewUserHandler(userSvc, online),
		Friend:       handler.NewFriendHandler(friendSvc),
		Invite:       handler.NewInviteHandler(inviteSvc),
		Rating:       handler.NewRatingHandler(ratingSvc),
		Health:       handler.NewHealthHandler(gdb, health, wsManager),
		WebSocket:    wsHandler.Serve,
	})

	// 8. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 9. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 10. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	// 设置关闭超时
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 关闭HTTP服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
