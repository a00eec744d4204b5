// internal/service/notification/consumer.go
package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/mq"
)

// Consumer 消费 notifications 主题并发送邮件。
// 邮件发送失败只记录不重试: 通知是尽力而为的，重试风暴比漏一封邮件更糟。
type Consumer struct {
	reader *kafka.Reader
	email  *EmailService
}

func NewConsumer(reader *kafka.Reader, email *EmailService) *Consumer {
	return &Consumer{reader: reader, email: email}
}

// Run 持续消费直到 ctx 取消。
func (c *Consumer) Run(ctx context.Context) error {
	logger.Ctx(ctx).Printf("✅ Notification consumer started for topic '%s'.", c.reader.Config().Topic)
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Ctx(ctx).Printf("🛑 Notification consumer shutting down.")
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
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Printf("ERROR: failed to unmarshal notification event: %v. Message skipped.", err)
		return
	}
	if event.RecipientEmail == "" {
		logger.Ctx(ctx).Warn().Str("event_id", event.EventID).Msg("notification event has no recipient, skipped")
		return
	}

	var err error
	switch event.Kind {
	case KindConfirmation:
		err = c.email.SendConfirmation(&event)
	case KindOpsAlert:
		err = c.email.SendOpsAlert(&event)
	default:
		logger.Ctx(ctx).Warn().Str("kind", event.Kind).Str("event_id", event.EventID).
			Msg("unknown notification kind, skipped")
		return
	}
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("event_id", event.EventID).Int64("order_no", event.OrderNo).
			Msg("failed to send notification email")
		return
	}
	logger.Ctx(ctx).Info().Str("kind", event.Kind).Int64("order_no", event.OrderNo).
		Str("to", event.RecipientEmail).Msg("notification email sent")
}
