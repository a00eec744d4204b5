package port

import (
	"context"

	"mall/internal/service/order/domain"
)

// DelayScheduler 是延迟任务调度器的出站端口。
type DelayScheduler interface {
	// ScheduleCancellation 弹出信封头部的延迟时长，把剩余信封
	// 以该时长为消息过期时间重新投递。信封为空时返回错误。
	ScheduleCancellation(ctx context.Context, envelope *domain.DelayEnvelope[int64]) error
}
