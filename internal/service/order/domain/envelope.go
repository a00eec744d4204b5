// internal/service/order/domain/envelope.go
package domain

import "time"

// DelayEnvelope 是多级延迟消息的载体: 一个业务负载加上一串递减的
// 剩余等待时长。每经过一次取消调度器，列表就被弹掉一个元素；
// 弹空之后执行终态动作。线上传输用毫秒，避免各语言消费方解析纳秒。
type DelayEnvelope[T any] struct {
	Data        T       `json:"data"`
	DelayMillis []int64 `json:"delayMillis"`
}

// NewDelayEnvelope 以给定的延迟序列构造信封。
func NewDelayEnvelope[T any](data T, delays ...time.Duration) *DelayEnvelope[T] {
	millis := make([]int64, len(delays))
	for i, d := range delays {
		millis[i] = d.Milliseconds()
	}
	return &DelayEnvelope[T]{Data: data, DelayMillis: millis}
}

// HasNextDelay 是否还有剩余的延迟阶段。
func (m *DelayEnvelope[T]) HasNextDelay() bool {
	return len(m.DelayMillis) > 0
}

// RemoveNextDelay 弹出并返回下一个延迟时长。
// 调用方必须先用 HasNextDelay 检查；对空列表调用返回 0。
func (m *DelayEnvelope[T]) RemoveNextDelay() time.Duration {
	if len(m.DelayMillis) == 0 {
		return 0
	}
	next := m.DelayMillis[0]
	m.DelayMillis = m.DelayMillis[1:]
	return time.Duration(next) * time.Millisecond
}
