package port

import (
	"context"

	"mall/internal/service/order/domain"
)

// CartSource 是购物车服务的出站端口。
type CartSource interface {
	// GetItems 按购物车条目 ID 拉取带价格的商品快照。
	// 任何失败（网络、超时、对端 5xx）都返回空切片而不是错误，
	// 调用方据此走兜底目录。
	GetItems(ctx context.Context, cartIDs []int64) []domain.CartItem
}
