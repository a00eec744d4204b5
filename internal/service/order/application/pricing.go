// internal/service/order/application/pricing.go
package application

import (
	"github.com/shopspring/decimal"

	"mall/internal/service/order/domain"
)

// TotalOf 汇总购物车快照的应付总额: Σ(单价 × 数量)。
// 纯函数；空列表返回 0。不做四舍五入，也不做币种换算。
func TotalOf(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
