// internal/service/order/infrastructure/adapter/sequence_redis_adapter.go
package adapter

import (
	"context"
	"sync"
	"time"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/redis"
)

const (
	sequenceKey = "mall:order:seq"
	sequenceTTL = 24 * time.Hour
)

// SequenceRedisAdapter 实现 port.OrderNoAllocator。
// 订单号 = 秒级时间戳 * 100000 + Redis 当日自增序列 % 100000，
// 全局唯一且大致按时间递增。Redis 不可用时退化为本地单调序列，
// 单实例部署下依然唯一。
type SequenceRedisAdapter struct {
	rdb *redis.Client

	mu        sync.Mutex
	lastLocal int64
}

func NewSequenceRedisAdapter(rdb *redis.Client) *SequenceRedisAdapter {
	return &SequenceRedisAdapter{rdb: rdb}
}

func (a *SequenceRedisAdapter) NextOrderNo(ctx context.Context) (int64, error) {
	now := time.Now().Unix()
	if a.rdb != nil {
		seq, err := a.rdb.Incr(ctx, sequenceKey)
		if err == nil {
			if seq == 1 {
				// 首次创建时挂上过期时间，避免序列无限增长
				if err := a.rdb.Expire(ctx, sequenceKey, sequenceTTL); err != nil {
					logger.Ctx(ctx).Warn().Err(err).Msg("failed to set order sequence ttl")
				}
			}
			return now*100000 + seq%100000, nil
		}
		logger.Ctx(ctx).Warn().Err(err).Msg("redis sequence unavailable, using local fallback")
	}
	return a.nextLocal(now), nil
}

// nextLocal 保证进程内单调递增。
func (a *SequenceRedisAdapter) nextLocal(nowSeconds int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	candidate := nowSeconds * 100000
	if candidate <= a.lastLocal {
		candidate = a.lastLocal + 1
	}
	a.lastLocal = candidate
	return candidate
}
