// internal/service/order/application/dto.go
package application

import (
	"github.com/shopspring/decimal"

	"mall/internal/service/order/domain"
)

// CreateOrderRequest 是下单用例的输入数据。
// UserID 由接口层从已验证的凭证中取出后显式传入，
// 应用层不读取任何进程级的请求上下文。
type CreateOrderRequest struct {
	UserID     int64
	ShippingID int64
	// CartIDs 是逗号分隔的购物车条目 ID 列表, e.g. "5,6"。
	// 购物车服务不可用时按商品 ID 解释。
	CartIDs     string
	PaymentType int
	// TotalAmount 非零时直接采信（前端可能叠加了促销/运费），
	// 为零时由服务端按行小计求和。
	TotalAmount decimal.Decimal
}

// CreateOrderResponse 是下单用例的输出数据。
type CreateOrderResponse struct {
	OrderNo       int64           `json:"orderNo"`
	UserID        int64           `json:"userId"`
	Status        int             `json:"status"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	Message       string          `json:"message"`
}

// OrderDetail 是订单详情接口的视图对象。
type OrderDetail struct {
	OrderNo       int64              `json:"orderNo"`
	UserID        int64              `json:"userId"`
	ShippingID    int64              `json:"shippingId"`
	PaymentType   int                `json:"paymentType"`
	PaymentAmount decimal.Decimal    `json:"paymentAmount"`
	Status        int                `json:"status"`
	StatusText    string             `json:"statusText"`
	Items         []OrderDetailItem  `json:"orderItems"`
}

type OrderDetailItem struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	UnitPrice    decimal.Decimal `json:"currentUnitPrice"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

func toOrderDetail(order *domain.Order) *OrderDetail {
	detail := &OrderDetail{
		OrderNo:       order.OrderNo,
		UserID:        order.UserID,
		ShippingID:    order.ShippingID,
		PaymentType:   order.PaymentType,
		PaymentAmount: order.PaymentAmount,
		Status:        int(order.Status),
		StatusText:    order.Status.String(),
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, OrderDetailItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice,
		})
	}
	return detail
}
