// internal/service/order/interfaces/order_timeout_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/mq"
	"mall/internal/pkg/zookeeper"
	"mall/internal/service/order/application"
	"mall/internal/service/order/domain"
)

// OrderTimeoutConsumer 是驱动适配器: 监听到期的取消检查消息并驱动应用服务。
type OrderTimeoutConsumer struct {
	reader  *kafka.Reader
	appSvc  *application.OrderApplicationService
	zkConn  *zookeeper.Conn // 可为 nil，表示不启用取消写入锁
	wg      sync.WaitGroup
	stopped atomic.Bool
}

func NewOrderTimeoutConsumer(reader *kafka.Reader, appSvc *application.OrderApplicationService, zkConn *zookeeper.Conn) *OrderTimeoutConsumer {
	return &OrderTimeoutConsumer{reader: reader, appSvc: appSvc, zkConn: zkConn}
}

// Start 开始监听。长期运行，直到 ctx 取消或 Stop 被调用。
func (c *OrderTimeoutConsumer) Start(ctx context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		logger.Ctx(ctx).Printf("✅ Order timeout consumer started for topic '%s'.", c.reader.Config().Topic)
		for {
			if c.stopped.Load() {
				return
			}
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Ctx(ctx).Printf("🛑 Order timeout consumer shutting down.")
					return
				}
				logger.Ctx(ctx).Printf("ERROR: could not fetch message: %v. Retrying...", err)
				time.Sleep(time.Second)
				continue
			}

			msgCtx := mq.ExtractTraceContext(ctx, msg.Headers)
			c.processMessage(msgCtx, msg)

			// 业务层已对重复投递幂等，这里无条件提交
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Printf("ERROR: failed to commit message: %v", err)
			}
		}
	}()
	return nil
}

// Stop 优雅停止消费者。
func (c *OrderTimeoutConsumer) Stop(ctx context.Context) {
	c.stopped.Store(true)
	_ = c.reader.Close()
	c.wg.Wait()
	logger.Ctx(ctx).Printf("✅ Order timeout consumer stopped.")
}

func (c *OrderTimeoutConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	var envelope domain.DelayEnvelope[int64]
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		logger.Ctx(ctx).Printf("ERROR: failed to unmarshal delay envelope: %v. Message skipped.", err)
		return
	}

	unlock := c.lockOrder(ctx, envelope.Data)
	defer unlock()

	if err := c.appSvc.ProcessCancellationCheck(ctx, &envelope); err != nil {
		logger.Ctx(ctx).Printf("ERROR: cancellation check failed for order %d: %v", envelope.Data, err)
	}
}

// lockOrder 对单个订单加 ZooKeeper 互斥锁，防止多实例同时处理同一订单。
// 未配置 ZooKeeper 或加锁失败时直接放行，最终一致由条件更新兜底。
func (c *OrderTimeoutConsumer) lockOrder(ctx context.Context, orderNo int64) func() {
	if c.zkConn == nil {
		return func() {}
	}
	lock, err := zookeeper.NewDistributedLock(c.zkConn, "order-"+strconv.FormatInt(orderNo, 10))
	if err != nil {
		logger.Ctx(ctx).Printf("WARN: failed to create zk lock for order %d: %v", orderNo, err)
		return func() {}
	}
	if err := lock.Lock(); err != nil {
		logger.Ctx(ctx).Printf("WARN: failed to acquire zk lock for order %d: %v", orderNo, err)
		return func() {}
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Ctx(ctx).Printf("WARN: failed to release zk lock for order %d: %v", orderNo, err)
		}
	}
}
