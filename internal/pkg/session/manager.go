// internal/pkg/session/manager.go
package session

import (
	"context"
	"fmt"
	"time"

	"mall/internal/pkg/redis"
)

const (
	keyPrefix  = "mall:session:gateway:"
	sessionTTL = 24 * time.Hour
)

// Manager 维护 用户 -> 推送网关节点 的会话映射。
// 多个 push-gateway 实例之间靠它判断某个用户连在哪个节点上。
type Manager struct {
	redisClient *redis.Client
}

func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{redisClient: redisClient}
}

// SetUserGateway 记录用户当前连接的网关节点。
func (m *Manager) SetUserGateway(ctx context.Context, userID, nodeID string) error {
	return m.redisClient.Set(ctx, keyPrefix+userID, nodeID, sessionTTL)
}

// GetUserGateway 查询用户连接的网关节点，未连接时返回空串。
func (m *Manager) GetUserGateway(ctx context.Context, userID string) (string, error) {
	return m.redisClient.Get(ctx, keyPrefix+userID)
}

// RemoveUserGateway 清除会话，仅当映射仍指向本节点时才删除。
func (m *Manager) RemoveUserGateway(ctx context.Context, userID, nodeID string) error {
	current, err := m.redisClient.Get(ctx, keyPrefix+userID)
	if err != nil {
		return err
	}
	if current != nodeID {
		return fmt.Errorf("session for user %s is owned by node %s", userID, current)
	}
	return m.redisClient.Del(ctx, keyPrefix+userID)
}
