package port

import "context"

// OrderNoAllocator 负责签发订单号。
// 订单号要求全局唯一、时间上大致递增。
type OrderNoAllocator interface {
	NextOrderNo(ctx context.Context) (int64, error)
}
