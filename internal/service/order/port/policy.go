package port

import (
	"time"

	"mall/internal/service/order/domain"
)

// DelayPolicy 决定一张订单适用的取消延迟序列。
type DelayPolicy interface {
	// StagesFor 返回订单的延迟阶段序列，永远非空。
	StagesFor(order *domain.Order) []time.Duration
}
