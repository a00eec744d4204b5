// internal/service/push/hub.go
package push

import (
	"context"
	"sync"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/session"
)

// Hub 维护本节点上所有活跃的 WebSocket 连接。
// 同一用户只保留最新的一条连接，旧连接被顶掉。
type Hub struct {
	nodeID     string
	sessions   *session.Manager
	register   chan *Client
	unregister chan *Client

	lock    sync.RWMutex
	clients map[string]*Client // key: userID
}

func NewHub(nodeID string, sessions *session.Manager) *Hub {
	return &Hub{
		nodeID:     nodeID,
		sessions:   sessions,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

// Run 处理连接的注册与注销，直到 ctx 取消。
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case client := <-h.register:
			h.lock.Lock()
			if old, ok := h.clients[client.userID]; ok {
				close(old.send)
			}
			h.clients[client.userID] = client
			h.lock.Unlock()
			if err := h.sessions.SetUserGateway(ctx, client.userID, h.nodeID); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("user_id", client.userID).
					Msg("failed to record gateway session")
			}
			logger.Ctx(ctx).Info().Str("user_id", client.userID).Str("node", h.nodeID).Msg("client registered")

		case client := <-h.unregister:
			h.lock.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.lock.Unlock()
			// 只清理仍然指向本节点的会话，避免误删用户在新节点上的会话
			if err := h.sessions.RemoveUserGateway(ctx, client.userID, h.nodeID); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("user_id", client.userID).
					Msg("failed to remove gateway session")
			}
			logger.Ctx(ctx).Info().Str("user_id", client.userID).Msg("client unregistered")

		case <-ctx.Done():
			h.closeAll()
			return nil
		}
	}
}

// Push 把消息投递给指定用户，用户不在本节点时返回 false。
// 读锁覆盖整个发送过程: close(client.send) 只在写锁内发生，
// 锁对保证不会向已关闭的 channel 发送。
func (h *Hub) Push(userID string, payload []byte) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()
	client, ok := h.clients[userID]
	if !ok {
		return false
	}
	select {
	case client.send <- payload:
		return true
	default:
		// 发送缓冲打满说明连接已经不健康，交给 writePump 的超时处理
		return false
	}
}

func (h *Hub) closeAll() {
	h.lock.Lock()
	defer h.lock.Unlock()
	for userID, client := range h.clients {
		close(client.send)
		delete(h.clients, userID)
	}
}
