package port

import (
	"context"

	"mall/internal/service/order/domain"
)

// CatalogLookup 是商品目录查询能力的出站端口。
// 远端目录和静态兜底目录都实现它，用责任链串联。
type CatalogLookup interface {
	// Lookup 按商品 ID 返回数量为 1 的快照；查不到时 ok 为 false。
	Lookup(ctx context.Context, productID int64) (item domain.CartItem, ok bool)

	// SetNext 设置链上的下一个查询者，返回入参便于链式书写。
	SetNext(next CatalogLookup) CatalogLookup
}
