// cmd/delay-scheduler/main.go
package main

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mall/internal/pkg/bootstrap"
	"mall/internal/pkg/logger"
	"mall/internal/pkg/mq"
	"mall/internal/service/order/infrastructure/adapter"
)

const (
	serviceName  = "delay-scheduler"
	servicePort  = 8087
	pollInterval = 1 * time.Second
)

var tracer = otel.Tracer(serviceName)

// levelScheduler 轮询一个延迟级别主题，把到期的消息转发到真实主题。
type levelScheduler struct {
	level  string
	delay  time.Duration
	reader *kafka.Reader

	brokers    []string
	writerLock sync.Mutex
	writers    map[string]*kafka.Writer // key: real topic
}

func newLevelScheduler(brokers []string, level string, delay time.Duration) *levelScheduler {
	return &levelScheduler{
		level:   level,
		delay:   delay,
		reader:  mq.NewKafkaReader(brokers, level, serviceName+"-group-"+level),
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

func (s *levelScheduler) run(ctx context.Context) error {
	logger.Ctx(ctx).Printf("✅ Polling scheduler for level '%s' started, checking every %v", s.level, pollInterval)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	defer s.reader.Close()
	defer s.closeWriters()

	for {
		select {
		case <-ticker.C:
			s.checkAndPublish(ctx)
		case <-ctx.Done():
			logger.Ctx(ctx).Printf("🛑 Shutting down polling for level '%s'", s.level)
			return nil
		}
	}
}

// checkAndPublish 从队头开始转发所有到期消息，碰到未到期的队头就停下。
// 同一级别主题承载一个时长区间的消息，队头之后可能有 deadline 更早的消息
// 被挡住，最多晚投递一个级别跨度的时间；只会晚，不会早。
func (s *levelScheduler) checkAndPublish(parentCtx context.Context) {
	for {
		fetchCtx, cancel := context.WithTimeout(parentCtx, 500*time.Millisecond)
		msg, err := s.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			// 没有新消息或上下文取消，等下一次 tick
			return
		}

		spanCtx := mq.ExtractTraceContext(parentCtx, msg.Headers)
		ctx, span := tracer.Start(spanCtx, "scheduler.CheckAndPublish", trace.WithAttributes(
			attribute.String("delay.level", s.level),
		))

		deadline := s.deliveryDeadline(msg)
		if time.Now().Before(deadline) {
			// 队头未到期，放回去等下一轮。不提交 offset 即可实现“放回”。
			span.AddEvent("HeadMessageNotDue")
			span.End()
			return
		}

		realTopic := mq.GetHeader(msg.Headers, adapter.HeaderRealTopic)
		if realTopic == "" {
			logger.Ctx(ctx).Printf("ERROR: '%s' header missing in message from '%s'. Skipping.", adapter.HeaderRealTopic, s.level)
			if err := s.reader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Printf("ERROR: failed to commit skipped message: %v", err)
			}
			span.End()
			continue
		}

		if err := s.publish(ctx, realTopic, msg); err != nil {
			logger.Ctx(ctx).Printf("ERROR: failed to publish to real topic '%s': %v", realTopic, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to publish to real topic")
			span.End()
			return // 不提交，下一轮重试
		}
		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Printf("ERROR: failed to commit after publish: %v", err)
			span.RecordError(err)
			span.End()
			return
		}
		span.AddEvent("MessagePublishedAndCommitted", trace.WithAttributes(attribute.String("real.topic", realTopic)))
		span.End()
	}
}

// deliveryDeadline 优先使用生产方写入的精确到期时间戳，
// 头缺失或解析失败时退回到 消息写入时间 + 级别时长。
func (s *levelScheduler) deliveryDeadline(msg kafka.Message) time.Time {
	if raw := mq.GetHeader(msg.Headers, adapter.HeaderDelayDeadline); raw != "" {
		if deadline, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return deadline
		}
	}
	return msg.Time.Add(s.delay)
}

func (s *levelScheduler) publish(ctx context.Context, realTopic string, msg kafka.Message) error {
	s.writerLock.Lock()
	writer, exists := s.writers[realTopic]
	if !exists {
		writer = mq.NewKafkaWriter(s.brokers, realTopic)
		s.writers[realTopic] = writer
	}
	s.writerLock.Unlock()

	// 重新构造消息并延续原始追踪上下文
	forward := kafka.Message{Key: msg.Key, Value: msg.Value}
	traceCtx := mq.ExtractTraceContext(ctx, msg.Headers)
	mq.InjectTraceContext(traceCtx, &forward.Headers)

	return writer.WriteMessages(ctx, forward)
}

func (s *levelScheduler) closeWriters() {
	s.writerLock.Lock()
	defer s.writerLock.Unlock()
	for topic, writer := range s.writers {
		if err := writer.Close(); err != nil {
			logger.Ctx(context.Background()).Printf("ERROR: failed to close writer for topic %s: %v", topic, err)
		}
	}
}

func main() {
	workers := make([]func(ctx context.Context) error, 0, len(adapter.DelayLevels))
	for level, delay := range adapter.DelayLevels {
		level, delay := level, delay
		workers = append(workers, func(ctx context.Context) error {
			return newLevelScheduler(bootstrap.GetCurrentConfig().Infra.Kafka.Brokers, level, delay).run(ctx)
		})
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		Workers:     workers,
	})
}
