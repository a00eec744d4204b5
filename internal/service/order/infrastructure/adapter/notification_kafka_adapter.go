// internal/service/order/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"mall/internal/pkg/mq"
	"mall/internal/service/order/domain"
	"mall/internal/service/order/port"
)

const (
	// NotificationTopic 由通知服务消费并发送邮件。
	NotificationTopic = "notifications"
	// OrderStatusTopic 由推送网关消费并推给在线用户。
	OrderStatusTopic = "order-status-topic"
)

// NotificationKafkaAdapter 实现 port.NotificationProducer。
// 把通知动作落成 Kafka 事件，邮件/推送由下游服务异步完成。
type NotificationKafkaAdapter struct {
	notifyWriter *kafka.Writer
	statusWriter *kafka.Writer
}

func NewNotificationKafkaAdapter(brokers []string) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{
		notifyWriter: mq.NewKafkaWriter(brokers, NotificationTopic),
		statusWriter: mq.NewKafkaWriter(brokers, OrderStatusTopic),
	}
}

func (a *NotificationKafkaAdapter) SendOrderConfirmation(ctx context.Context, order *domain.Order, recipient port.CustomerInfo) error {
	return a.publishNotification(ctx, order, domain.NotificationKindConfirmation, recipient)
}

func (a *NotificationKafkaAdapter) SendOpsAlert(ctx context.Context, order *domain.Order, recipient port.CustomerInfo) error {
	return a.publishNotification(ctx, order, domain.NotificationKindOpsAlert, recipient)
}

func (a *NotificationKafkaAdapter) publishNotification(ctx context.Context, order *domain.Order, kind string, recipient port.CustomerInfo) error {
	event := domain.NotificationEvent{
		EventID:        uuid.NewString(),
		Kind:           kind,
		OrderNo:        order.OrderNo,
		UserID:         order.UserID,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		PaymentAmount:  order.PaymentAmount,
		CreatedAt:      time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal notification event")
	}
	return mq.ProduceMessage(ctx, a.notifyWriter, []byte(strconv.FormatInt(order.OrderNo, 10)), payload)
}

func (a *NotificationKafkaAdapter) PublishStatusChanged(ctx context.Context, order *domain.Order, message string) error {
	event := domain.OrderStatusEvent{
		OrderNo:   order.OrderNo,
		UserID:    order.UserID,
		Status:    order.Status.String(),
		Message:   message,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order status event")
	}
	// 按 userId 分区，同一用户的状态推送保持顺序
	return mq.ProduceMessage(ctx, a.statusWriter, []byte(strconv.FormatInt(order.UserID, 10)), payload)
}

func (a *NotificationKafkaAdapter) Close() error {
	err1 := a.notifyWriter.Close()
	err2 := a.statusWriter.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
