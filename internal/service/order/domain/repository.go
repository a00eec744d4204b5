// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 位于领域层，由基础设施层实现。
type OrderRepository interface {
	// Create 在一个事务里写入订单头和所有订单行。
	Create(ctx context.Context, order *Order) error

	// FindByOrderNo 按订单号查找订单（含订单行）。
	// 不存在时返回 ErrOrderNotFound。
	FindByOrderNo(ctx context.Context, orderNo int64) (*Order, error)

	// UpdateStatusIf 条件更新: 仅当当前状态等于 from 时才改为 to。
	// 返回是否真的发生了更新。所有写方必须走这个
	// 读取-条件写入模式，避免并发丢失更新。
	UpdateStatusIf(ctx context.Context, orderNo int64, from, to Status) (bool, error)

	// ListByUserID 按用户查询订单（供订单列表接口使用）。
	ListByUserID(ctx context.Context, userID int64) ([]Order, error)
}
