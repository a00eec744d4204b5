// internal/service/push/consumer.go
package push

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/mq"
)

// StatusEvent 是 order-status-topic 上的消息体。
type StatusEvent struct {
	OrderNo   int64     `json:"orderNo"`
	UserID    int64     `json:"userId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Consumer 消费订单状态事件并推送给本节点在线的用户。
// 用户不在线（或挂在别的节点上）时直接丢弃: 状态推送只是体验增强，
// 权威状态永远以订单服务的查询接口为准。
type Consumer struct {
	reader *kafka.Reader
	hub    *Hub
}

func NewConsumer(reader *kafka.Reader, hub *Hub) *Consumer {
	return &Consumer{reader: reader, hub: hub}
}

func (c *Consumer) Run(ctx context.Context) error {
	logger.Ctx(ctx).Printf("✅ Push consumer started for topic '%s'.", c.reader.Config().Topic)
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Ctx(ctx).Printf("🛑 Push consumer shutting down.")
				return nil
			}
			logger.Ctx(ctx).Printf("ERROR: could not fetch message: %v. Retrying...", err)
			time.Sleep(time.Second)
			continue
		}

		msgCtx := mq.ExtractTraceContext(ctx, msg.Headers)
		c.handle(msgCtx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Printf("ERROR: failed to commit message: %v", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var event StatusEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Printf("ERROR: failed to unmarshal status event: %v. Message skipped.", err)
		return
	}
	userID := strconv.FormatInt(event.UserID, 10)
	if c.hub.Push(userID, msg.Value) {
		logger.Ctx(ctx).Info().Str("user_id", userID).Int64("order_no", event.OrderNo).
			Str("status", event.Status).Msg("status pushed to client")
	}
}
