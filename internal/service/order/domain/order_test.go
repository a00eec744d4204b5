package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOrdering(t *testing.T) {
	// 取消调度器依赖数值顺序判断“订单已进入支付后流程”
	assert.True(t, StatusCancelled < StatusUnpaid)
	assert.True(t, StatusUnpaid < StatusPaid)
	assert.True(t, StatusPaid < StatusShipped)
	assert.True(t, StatusShipped < StatusCompleted)
}

func TestOrderTransitions(t *testing.T) {
	order := &Order{Status: StatusUnpaid}

	require.NoError(t, order.Pay())
	assert.Equal(t, StatusPaid, order.Status)

	require.NoError(t, order.Ship())
	require.NoError(t, order.Complete())
	assert.Equal(t, StatusCompleted, order.Status)
}

func TestOrderCancelOnlyWhenUnpaid(t *testing.T) {
	order := &Order{Status: StatusUnpaid}
	require.NoError(t, order.Cancel())
	assert.Equal(t, StatusCancelled, order.Status)

	paid := &Order{Status: StatusPaid}
	assert.ErrorIs(t, paid.Cancel(), ErrInvalidTransition)
	assert.Equal(t, StatusPaid, paid.Status)

	cancelled := &Order{Status: StatusCancelled}
	assert.ErrorIs(t, cancelled.Cancel(), ErrInvalidTransition)
}

func TestCartItemToOrderItem(t *testing.T) {
	cart := CartItem{
		ProductID:    3,
		ProductName:  "Bar Juice 5000 Nic Salt - Butter Mints",
		ProductImage: "8bbc0c4d-63e7-41bc-963d-cfbbc5bdcd9a.png",
		UnitPrice:    decimal.NewFromFloat(4.50),
		Quantity:     2,
	}
	item := cart.ToOrderItem(20240501123, 7)

	assert.Equal(t, int64(20240501123), item.OrderNo)
	assert.Equal(t, int64(7), item.UserID)
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromFloat(9.00)), "total = %s", item.TotalPrice)
}
