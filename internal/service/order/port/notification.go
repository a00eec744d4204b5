package port

import (
	"context"

	"mall/internal/service/order/domain"
)

// NotificationProducer 是通知事件生产者的出站端口。
// 所有方法对编排器而言都是尽力而为: 返回的错误只用于记录，
// 绝不参与下单主流程的控制。
type NotificationProducer interface {
	// SendOrderConfirmation 给下单用户发送确认通知。
	SendOrderConfirmation(ctx context.Context, order *domain.Order, recipient CustomerInfo) error

	// SendOpsAlert 给运营侧发送新订单告警。
	SendOpsAlert(ctx context.Context, order *domain.Order, recipient CustomerInfo) error

	// PublishStatusChanged 发布订单状态变更事件（推送网关消费）。
	PublishStatusChanged(ctx context.Context, order *domain.Order, message string) error
}
