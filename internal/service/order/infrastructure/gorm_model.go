// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"mall/internal/service/order/domain"
)

// CustomerOrderModel 对应 customer_order 表。
type CustomerOrderModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	OrderNo       int64           `gorm:"column:order_no;uniqueIndex"`
	UserID        int64           `gorm:"column:user_id;index"`
	ShippingID    int64           `gorm:"column:shipping_id"`
	PaymentType   int             `gorm:"column:payment_type"`
	PaymentAmount decimal.Decimal `gorm:"column:payment;type:decimal(10,2)"`
	Status        int             `gorm:"column:status"`
	CreatedAt     time.Time       `gorm:"column:create_time"`
	UpdatedAt     time.Time       `gorm:"column:update_time"`
}

func (CustomerOrderModel) TableName() string { return "customer_order" }

// OrderItemModel 对应 order_item 表，存商品下单时刻的快照。
type OrderItemModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	OrderNo      int64           `gorm:"column:order_no;index"`
	UserID       int64           `gorm:"column:user_id"`
	ProductID    int64           `gorm:"column:product_id"`
	ProductName  string          `gorm:"column:product_name;size:128"`
	ProductImage string          `gorm:"column:product_image;size:512"`
	UnitPrice    decimal.Decimal `gorm:"column:current_unit_price;type:decimal(10,2)"`
	Quantity     int             `gorm:"column:quantity"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:decimal(10,2)"`
	CreatedAt    time.Time       `gorm:"column:create_time"`
	UpdatedAt    time.Time       `gorm:"column:update_time"`
}

func (OrderItemModel) TableName() string { return "order_item" }

func toOrderModel(order *domain.Order) *CustomerOrderModel {
	return &CustomerOrderModel{
		OrderNo:       order.OrderNo,
		UserID:        order.UserID,
		ShippingID:    order.ShippingID,
		PaymentType:   order.PaymentType,
		PaymentAmount: order.PaymentAmount,
		Status:        int(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func toItemModels(items []domain.OrderItem) []OrderItemModel {
	out := make([]OrderItemModel, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItemModel{
			OrderNo:      item.OrderNo,
			UserID:       item.UserID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice,
		})
	}
	return out
}

func toDomainOrder(model *CustomerOrderModel, items []OrderItemModel) *domain.Order {
	order := &domain.Order{
		OrderNo:       model.OrderNo,
		UserID:        model.UserID,
		ShippingID:    model.ShippingID,
		PaymentType:   model.PaymentType,
		PaymentAmount: model.PaymentAmount,
		Status:        domain.Status(model.Status),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			OrderNo:      item.OrderNo,
			UserID:       item.UserID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice,
		})
	}
	return order
}
