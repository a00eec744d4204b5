// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"mall/internal/service/order/domain"
)

// GormOrderRepository 是 domain.OrderRepository 的 MySQL 实现。
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create 在同一事务里写入订单头和全部订单行。
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toOrderModel(order)).Error; err != nil {
			return errors.Wrapf(err, "create order %d", order.OrderNo)
		}
		items := toItemModels(order.Items)
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return errors.Wrapf(err, "create order items for %d", order.OrderNo)
			}
		}
		return nil
	})
}

// FindByOrderNo 按订单号取订单头和订单行。
func (r *GormOrderRepository) FindByOrderNo(ctx context.Context, orderNo int64) (*domain.Order, error) {
	var model CustomerOrderModel
	err := r.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "find order %d", orderNo)
	}

	var items []OrderItemModel
	if err := r.db.WithContext(ctx).Where("order_no = ?", orderNo).Find(&items).Error; err != nil {
		return nil, errors.Wrapf(err, "find order items for %d", orderNo)
	}
	return toDomainOrder(&model, items), nil
}

// UpdateStatusIf 条件状态迁移: 只有当前状态等于 from 时才写入 to。
// 返回值表示这次调用是否真的改了行，并发竞争输掉时返回 false。
func (r *GormOrderRepository) UpdateStatusIf(ctx context.Context, orderNo int64, from, to domain.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&CustomerOrderModel{}).
		Where("order_no = ? AND status = ?", orderNo, int(from)).
		Updates(map[string]interface{}{
			"status":      int(to),
			"update_time": time.Now(),
		})
	if result.Error != nil {
		return false, errors.Wrapf(result.Error, "update order %d status %d->%d", orderNo, from, to)
	}
	return result.RowsAffected > 0, nil
}

// ListByUserID 按用户取订单列表，新订单在前，订单行一并带出。
func (r *GormOrderRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	var models []CustomerOrderModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("create_time DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list orders for user %d", userID)
	}
	if len(models) == 0 {
		return nil, nil
	}

	orderNos := make([]int64, 0, len(models))
	for _, m := range models {
		orderNos = append(orderNos, m.OrderNo)
	}
	var items []OrderItemModel
	if err := r.db.WithContext(ctx).Where("order_no IN ?", orderNos).Find(&items).Error; err != nil {
		return nil, errors.Wrapf(err, "list order items for user %d", userID)
	}
	byOrder := make(map[int64][]OrderItemModel, len(models))
	for _, item := range items {
		byOrder[item.OrderNo] = append(byOrder[item.OrderNo], item)
	}

	orders := make([]domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, *toDomainOrder(&models[i], byOrder[models[i].OrderNo]))
	}
	return orders, nil
}
