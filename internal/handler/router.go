package handler

import (
	"time"

	"lobby-server/pkg/jwt"
	"lobby-server/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig 路由依赖
type RouterConfig struct {
	JWT          *jwt.JWTService
	AllowOrigins []string // 为空时不启用CORS

	User      *UserHandler
	Friend    *FriendHandler
	Invite    *InviteHandler
	Rating    *RatingHandler
	Health    *HealthHandler
	WebSocket gin.HandlerFunc // 可为 nil
}

// NewRouter 创建Gin路由并注册全部接口
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// 使用中间件
	router.Use(logger.RequestIDMiddleware())   // 请求ID
	router.Use(logger.LoggerMiddleware())      // 自定义日志中间件
	router.Use(logger.ErrorLoggerMiddleware()) // 错误日志中间件

	// 前端页面跨域访问
	if len(cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 健康检查
	router.GET("/health", cfg.Health.Health)

	auth := cfg.JWT.AuthMiddleware()

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			// 公开接口（无需认证）
			users.POST("/register", cfg.User.Register)
			users.POST("/login", cfg.User.Login)
			users.GET("", cfg.User.ListUsers)
			users.GET("/:id", cfg.User.GetUser)
			users.GET("/:id/friends", cfg.Friend.ListFriends)
			users.GET("/:id/friend-requests", cfg.Friend.ListPending)
		}

		v1.GET("/search/users", cfg.Friend.Search)
		v1.GET("/online-users", cfg.User.OnlineUsers)

		// 好友申请（需要认证）
		friendRequests := v1.Group("/friend-requests")
		friendRequests.Use(auth)
		{
			friendRequests.POST("", cfg.Friend.SendRequest)
			friendRequests.POST("/:request_id/respond", cfg.Friend.Respond)
		}

		// 对局邀请
		invites := v1.Group("/invites")
		{
			invites.POST("", auth, cfg.Invite.CreateInvite)
			// 忽略通知或拒绝邀请
			invites.PUT("/:invite_id/status", auth, cfg.Invite.SetStatus)
			// 轮询是否被拒绝
			invites.GET("/:invite_id/status/:username", cfg.Invite.CheckStatus)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("/:username", cfg.Invite.ListNotifications)
			notifications.GET("/:username/unread-count", cfg.Invite.UnreadCount)
		}

		// 积分（需要认证）
		v1.POST("/ratings/:username", auth, cfg.Rating.ApplyDelta)
	}

	// WebSocket路由
	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}

	return router
}
