// internal/service/notification/event.go
package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

// 与订单服务约定的事件类别。
const (
	KindConfirmation = "order_confirmation"
	KindOpsAlert     = "ops_alert"
)

// Event 是 notifications 主题上的消息体。
// 字段与订单服务发布的 NotificationEvent 保持线上兼容。
type Event struct {
	EventID        string          `json:"eventId"`
	Kind           string          `json:"kind"`
	OrderNo        int64           `json:"orderNo"`
	UserID         int64           `json:"userId"`
	RecipientEmail string          `json:"recipientEmail"`
	RecipientName  string          `json:"recipientName"`
	PaymentAmount  decimal.Decimal `json:"paymentAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
}
