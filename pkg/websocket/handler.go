package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"lobby-server/config"
	"lobby-server/internal/model"
	"lobby-server/pkg/jwt"
	"lobby-server/pkg/logger"
	"lobby-server/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Presence 在线状态存储（Redis实现见 pkg/redis）
type Presence interface {
	SetOnline(ctx context.Context, username string) error
	SetOffline(ctx context.Context, username string) error
	RefreshPresence(ctx context.Context, username string) error
}

// PendingInvites 查询用户待回应的邀请，连接建立后补推
type PendingInvites interface {
	ListForInvitee(ctx context.Context, username string) ([]model.Invite, error)
}

// AuthProtocol 浏览器无法设置请求头时，通过子协议 ["bearer", <token>] 携带token
const AuthProtocol = "bearer"

// Handler WebSocket 接入
type Handler struct {
	manager  *Manager
	jwt      *jwt.JWTService
	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader

	presence Presence
	pending  PendingInvites
}

// NewHandler 创建WebSocket处理器，presence 与 pending 可为 nil
func NewHandler(manager *Manager, jwtService *jwt.JWTService, cfg config.WebSocketConfig, presence Presence, pending PendingInvites) *Handler {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 2 * cfg.PingInterval
	}
	return &Handler{
		manager: manager,
		jwt:     jwtService,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			// 只回显选中的 bearer 子协议，token 本身不回显
			Subprotocols: []string{AuthProtocol},
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许跨域，来源由 CORS 配置约束
			},
		},
		presence: presence,
		pending:  pending,
	}
}

// Serve Gin路由处理函数
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = tokenFromProtocols(websocket.Subprotocols(c.Request))
	}
	if token == "" {
		response.Unauthorized(c, "缺少token")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Unauthorized(c, "token无效或已过期")
		return
	}
	username := claims.Username

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket升级失败", zap.String("username", username), zap.Error(err))
		return
	}

	client := NewClient(username, conn)
	h.manager.AddClient(client, func() { h.markOnline(username) })
	logger.Info("WebSocket连接建立", zap.String("username", username))

	defer func() {
		// 被新连接替换时保留在线状态
		h.manager.RemoveClient(client, func() { h.markOffline(username) })
		_ = conn.Close()
		logger.Info("WebSocket连接断开", zap.String("username", username))
	}()

	// 启动写协程 + 定时发送ping心跳
	go h.writePump(client)

	// 用户上线后，补推待回应的邀请
	h.pushPending(c.Request.Context(), client)

	h.readPump(client)
}

// writePump 唯一的写协程，Send 关闭或写失败时关闭连接
func (h *Handler) writePump(client *Client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = client.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				_ = client.Conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
				return
			}
			_ = client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

// readPump 读循环（接收心跳/客户端消息）。若超时未收到任何读事件则断开
func (h *Handler) readPump(client *Client) {
	conn := client.Conn
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		h.refresh(client.Username)
		return conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	})
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "heartbeat":
			// 刷新用户在线状态（延长TTL）
			h.refresh(client.Username)
		}
	}
}

// tokenFromProtocols 从子协议列表中取出token
// 支持 ["bearer", <token>] 以及单个 "Bearer <token>" 两种写法
func tokenFromProtocols(protocols []string) string {
	offeredBearer := false
	candidate := ""
	for _, p := range protocols {
		switch {
		case strings.EqualFold(p, AuthProtocol):
			offeredBearer = true
		case len(p) > len(AuthProtocol)+1 && strings.EqualFold(p[:len(AuthProtocol)+1], AuthProtocol+" "):
			return strings.TrimSpace(p[len(AuthProtocol)+1:])
		case candidate == "":
			candidate = p
		}
	}
	if offeredBearer {
		return candidate
	}
	return ""
}

func (h *Handler) pushPending(ctx context.Context, client *Client) {
	if h.pending == nil {
		return
	}
	invites, err := h.pending.ListForInvitee(ctx, client.Username)
	if err != nil {
		logger.Warn("查询待回应邀请失败", zap.String("username", client.Username), zap.Error(err))
		return
	}
	for i := range invites {
		data, err := json.Marshal(map[string]interface{}{
			"type":   "invite",
			"invite": &invites[i],
		})
		if err != nil {
			continue
		}
		h.manager.SendToUser(client.Username, data)
	}
}

// presenceTimeout 在线状态写入在连接管理器锁内执行，需限制耗时
const presenceTimeout = 2 * time.Second

func (h *Handler) markOnline(username string) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.presence.SetOnline(ctx, username); err != nil {
		logger.Warn("设置在线状态失败", zap.String("username", username), zap.Error(err))
	}
}

func (h *Handler) markOffline(username string) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.presence.SetOffline(ctx, username); err != nil {
		logger.Warn("设置离线状态失败", zap.String("username", username), zap.Error(err))
	}
}

func (h *Handler) refresh(username string) {
	if h.presence == nil {
		return
	}
	_ = h.presence.RefreshPresence(context.Background(), username)
}
