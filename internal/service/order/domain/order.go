// internal/service/order/domain/order.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 定义了订单的生命周期状态。
// 数值顺序即业务顺序: 大于 StatusUnpaid 说明订单已经进入支付后流程，
// 取消调度器据此判断是否还允许取消。
type Status int

const (
	StatusCancelled Status = 0 // 已取消（超时或用户主动）
	StatusUnpaid    Status = 1 // 待支付（初始状态）
	StatusPaid      Status = 2 // 已支付
	StatusShipped   Status = 3 // 已发货
	StatusCompleted Status = 4 // 已完成
)

func (s Status) String() string {
	switch s {
	case StatusCancelled:
		return "CANCELLED"
	case StatusUnpaid:
		return "UNPAID"
	case StatusPaid:
		return "PAID"
	case StatusShipped:
		return "SHIPPED"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Order 是订单聚合的根实体。
// PaymentAmount 在创建时定死，之后不再重新计价。
type Order struct {
	OrderNo       int64
	UserID        int64
	ShippingID    int64
	PaymentType   int
	PaymentAmount decimal.Decimal
	Status        Status
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem 是下单时的商品快照。
// 名称/图片/单价在创建后不会随商品目录变化，保证历史订单可回溯。
type OrderItem struct {
	OrderNo      int64
	UserID       int64
	ProductID    int64
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int
	TotalPrice   decimal.Decimal
}

// CartItem 是从购物车服务取回的单行条目快照。
// 只在下单过程中短暂存在，不落库。
type CartItem struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productMainImage"`
	UnitPrice    decimal.Decimal `json:"productPrice"`
	Quantity     int             `json:"quantity"`
}

// ToOrderItem 把购物车快照转成订单行，行小计 = 单价 × 数量。
func (c CartItem) ToOrderItem(orderNo, userID int64) OrderItem {
	return OrderItem{
		OrderNo:      orderNo,
		UserID:       userID,
		ProductID:    c.ProductID,
		ProductName:  c.ProductName,
		ProductImage: c.ProductImage,
		UnitPrice:    c.UnitPrice,
		Quantity:     c.Quantity,
		TotalPrice:   c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity))),
	}
}

// Pay 支付订单。
func (o *Order) Pay() error {
	if o.Status != StatusUnpaid {
		return ErrInvalidTransition
	}
	o.Status = StatusPaid
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel 取消订单。只有待支付的订单可以被取消。
func (o *Order) Cancel() error {
	if o.Status != StatusUnpaid {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// Ship 发货。
func (o *Order) Ship() error {
	if o.Status != StatusPaid {
		return ErrInvalidTransition
	}
	o.Status = StatusShipped
	o.UpdatedAt = time.Now()
	return nil
}

// Complete 完成订单。
func (o *Order) Complete() error {
	if o.Status != StatusShipped {
		return ErrInvalidTransition
	}
	o.Status = StatusCompleted
	o.UpdatedAt = time.Now()
	return nil
}
