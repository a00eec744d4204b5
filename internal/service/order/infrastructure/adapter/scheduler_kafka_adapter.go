// internal/service/order/infrastructure/adapter/scheduler_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"mall/internal/pkg/mq"
	"mall/internal/service/order/domain"
)

const (
	// RealTopic 是延迟到期后消息被转发到的业务主题。
	RealTopic = "order-timeout-check-topic"

	// HeaderRealTopic / HeaderDelayDeadline 是延迟消息协议约定的消息头。
	HeaderRealTopic     = "real-topic"
	HeaderDelayDeadline = "delay-deadline"
)

// DelayLevels 是全部可用的延迟级别主题。
// Kafka 没有原生延迟消息，用固定级别主题 + 轮询转发器模拟。
var DelayLevels = map[string]time.Duration{
	"delay_topic_5s":  5 * time.Second,
	"delay_topic_10s": 10 * time.Second,
	"delay_topic_15s": 15 * time.Second,
	"delay_topic_30s": 30 * time.Second,
	"delay_topic_1m":  1 * time.Minute,
	"delay_topic_10m": 10 * time.Minute,
}

// SchedulerKafkaAdapter 实现 port.DelayScheduler。
// 每次调度弹出信封头部的延迟时长，把剩余信封投进一个延迟级别主题，
// 并带上精确的到期时间戳供转发器判断。
type SchedulerKafkaAdapter struct {
	writers map[string]*kafka.Writer // key: 延迟级别主题
	sorted  []string                 // 级别主题按时长升序
}

// NewSchedulerKafkaAdapter 为每个延迟级别各建一个 writer。
func NewSchedulerKafkaAdapter(brokers []string) *SchedulerKafkaAdapter {
	a := &SchedulerKafkaAdapter{writers: make(map[string]*kafka.Writer, len(DelayLevels))}
	for level := range DelayLevels {
		a.writers[level] = mq.NewKafkaWriter(brokers, level)
		a.sorted = append(a.sorted, level)
	}
	sort.Slice(a.sorted, func(i, j int) bool {
		return DelayLevels[a.sorted[i]] < DelayLevels[a.sorted[j]]
	})
	return a
}

// ScheduleCancellation 发送下一级取消检查。
// 消息体是弹出头部之后的信封，消息过期时间等于刚弹出的时长。
func (a *SchedulerKafkaAdapter) ScheduleCancellation(ctx context.Context, envelope *domain.DelayEnvelope[int64]) error {
	if !envelope.HasNextDelay() {
		return errors.New("delay envelope is empty, nothing to schedule")
	}
	delay := envelope.RemoveNextDelay()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "marshal delay envelope")
	}

	deadline := time.Now().Add(delay).UTC()
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(envelope.Data, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderRealTopic, Value: []byte(RealTopic)},
			{Key: HeaderDelayDeadline, Value: []byte(deadline.Format(time.RFC3339Nano))},
		},
	}
	mq.InjectTraceContext(ctx, &msg.Headers)

	level := a.pickLevel(delay)
	if err := a.writers[level].WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "publish delay envelope to %s", level)
	}
	return nil
}

// pickLevel 选不小于 delay 的最小级别；超出全部级别时取最大的。
// 转发器按 delay-deadline 头判断到期，级别只决定消息被检查的频率上限，
// 选大了不会提前投递。
func (a *SchedulerKafkaAdapter) pickLevel(delay time.Duration) string {
	for _, level := range a.sorted {
		if DelayLevels[level] >= delay {
			return level
		}
	}
	return a.sorted[len(a.sorted)-1]
}

// Close 关闭全部底层 writer。
func (a *SchedulerKafkaAdapter) Close() error {
	var firstErr error
	for _, w := range a.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
