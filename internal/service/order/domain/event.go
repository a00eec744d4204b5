// internal/service/order/domain/event.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// 通知事件的类别。
const (
	NotificationKindConfirmation = "order_confirmation"
	NotificationKindOpsAlert     = "ops_alert"
)

// NotificationEvent 发往 notifications 主题，由通知服务消费并发送邮件。
type NotificationEvent struct {
	EventID        string          `json:"eventId"`
	Kind           string          `json:"kind"`
	OrderNo        int64           `json:"orderNo"`
	UserID         int64           `json:"userId"`
	RecipientEmail string          `json:"recipientEmail"`
	RecipientName  string          `json:"recipientName"`
	PaymentAmount  decimal.Decimal `json:"paymentAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// OrderStatusEvent 发往 order-status-topic，由推送网关转发给在线用户。
type OrderStatusEvent struct {
	OrderNo   int64     `json:"orderNo"`
	UserID    int64     `json:"userId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
