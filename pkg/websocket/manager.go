package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client 代表一个WebSocket连接的用户
// Username: 用户名
// Conn: WebSocket连接
// Send: 发送消息的通道

type Client struct {
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

// sendBuffer 每个连接的发送缓冲
const sendBuffer = 256

// NewClient 创建连接对象
func NewClient(username string, conn *websocket.Conn) *Client {
	return &Client{
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
	}
}

// Manager 管理所有在线用户的WebSocket连接，按用户名索引
// 同一用户重复连接时旧连接被替换

type Manager struct {
	clients map[string]*Client // 在线用户
	lock    sync.RWMutex
}

// NewManager 创建连接管理器
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
	}
}

// AddClient 添加新连接，onAdd 非空时在持锁期间执行
// 与 RemoveClient 的 onRemove 串行，在线状态的写入顺序与连接替换顺序一致
func (m *Manager) AddClient(client *Client, onAdd func()) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if old, ok := m.clients[client.Username]; ok && old != client {
		close(old.Send)
	}
	m.clients[client.Username] = client
	if onAdd != nil {
		onAdd()
	}
}

// RemoveClient 移除连接，连接已被替换时不做处理
// 只有移除的是当前连接时才在持锁期间执行 onRemove
func (m *Manager) RemoveClient(client *Client, onRemove func()) {
	m.lock.Lock()
	defer m.lock.Unlock()
	c, ok := m.clients[client.Username]
	if !ok || c != client {
		return
	}
	close(c.Send)
	delete(m.clients, client.Username)
	if onRemove != nil {
		onRemove()
	}
}

// SendToUser 推送消息给指定用户，用户不在线或缓冲已满时返回 false
func (m *Manager) SendToUser(username string, msg []byte) bool {
	// 持有读锁直到写入完成，避免与 RemoveClient 关闭通道竞争
	m.lock.RLock()
	defer m.lock.RUnlock()
	client, ok := m.clients[username]
	if !ok {
		return false
	}
	select {
	case client.Send <- msg:
		return true
	default:
		// 缓冲已满，连接可能已断开
		return false
	}
}

// OnlineCount 当前连接数
func (m *Manager) OnlineCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.clients)
}
