package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"mall/internal/service/order/domain"
	"mall/internal/service/order/infrastructure/adapter"
	"mall/internal/service/order/port"
)

// memoryRepo 是测试用的内存订单仓库。
type memoryRepo struct {
	orders    map[int64]*domain.Order
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[int64]*domain.Order)}
}

func (r *memoryRepo) Create(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *order
	r.orders[order.OrderNo] = &clone
	return nil
}

func (r *memoryRepo) FindByOrderNo(_ context.Context, orderNo int64) (*domain.Order, error) {
	order, ok := r.orders[orderNo]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *memoryRepo) UpdateStatusIf(_ context.Context, orderNo int64, from, to domain.Status) (bool, error) {
	order, ok := r.orders[orderNo]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (r *memoryRepo) ListByUserID(_ context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

type fakeCart struct {
	items []domain.CartItem
}

func (f *fakeCart) GetItems(context.Context, []int64) []domain.CartItem {
	return f.items
}

// fakeScheduler 模仿真实适配器的弹头语义并记录每次投递。
type fakeScheduler struct {
	err       error
	delays    []time.Duration
	published []*domain.DelayEnvelope[int64]
}

func (f *fakeScheduler) ScheduleCancellation(_ context.Context, envelope *domain.DelayEnvelope[int64]) error {
	if f.err != nil {
		return f.err
	}
	if !envelope.HasNextDelay() {
		return errors.New("delay envelope is empty")
	}
	f.delays = append(f.delays, envelope.RemoveNextDelay())
	clone := &domain.DelayEnvelope[int64]{
		Data:        envelope.Data,
		DelayMillis: append([]int64(nil), envelope.DelayMillis...),
	}
	f.published = append(f.published, clone)
	return nil
}

type fakeNotifier struct {
	err           error
	confirmations int
	opsAlerts     int
	statusEvents  []string
}

func (f *fakeNotifier) SendOrderConfirmation(_ context.Context, _ *domain.Order, _ port.CustomerInfo) error {
	f.confirmations++
	return f.err
}

func (f *fakeNotifier) SendOpsAlert(_ context.Context, _ *domain.Order, _ port.CustomerInfo) error {
	f.opsAlerts++
	return f.err
}

func (f *fakeNotifier) PublishStatusChanged(_ context.Context, order *domain.Order, _ string) error {
	f.statusEvents = append(f.statusEvents, order.Status.String())
	return f.err
}

type fakeCustomers struct{}

func (fakeCustomers) GetCustomerByID(context.Context, int64) port.CustomerInfo {
	return port.CustomerInfo{Email: "jane@example.com", Name: "Jane"}
}

type fakeSequence struct {
	next int64
	err  error
}

func (f *fakeSequence) NextOrderNo(context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return 20240000000 + f.next, nil
}

type fixedPolicy struct {
	stages []time.Duration
}

func (p fixedPolicy) StagesFor(*domain.Order) []time.Duration {
	return p.stages
}

type fixture struct {
	svc       *OrderApplicationService
	repo      *memoryRepo
	cart      *fakeCart
	scheduler *fakeScheduler
	notifier  *fakeNotifier
	sequence  *fakeSequence
}

func newFixture(stages ...time.Duration) *fixture {
	if len(stages) == 0 {
		stages = []time.Duration{10 * time.Second, 10 * time.Second, 30 * time.Second}
	}
	f := &fixture{
		repo:      newMemoryRepo(),
		cart:      &fakeCart{},
		scheduler: &fakeScheduler{},
		notifier:  &fakeNotifier{},
		sequence:  &fakeSequence{},
	}
	f.svc = NewOrderApplicationService(Deps{
		OrderRepo:    f.repo,
		CartSource:   f.cart,
		Catalog:      adapter.NewStaticCatalog(),
		Customers:    fakeCustomers{},
		Notifier:     f.notifier,
		Scheduler:    f.scheduler,
		OrderNos:     f.sequence,
		DelayPolicy:  fixedPolicy{stages: stages},
		Tracer:       noop.NewTracerProvider().Tracer("test"),
		OpsRecipient: port.CustomerInfo{Email: "ops@mall.local", Name: "Ops"},
	})
	return f
}

func TestCreateOrderFromCart(t *testing.T) {
	f := newFixture()
	f.cart.items = []domain.CartItem{
		{ProductID: 1, ProductName: "Drifter Bar - Cola 50/50 100ml Shortfill Eliquid", UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
		{ProductID: 3, ProductName: "Bar Juice 5000 Nic Salt - Butter Mints", UnitPrice: decimal.NewFromFloat(4.50), Quantity: 2},
	}

	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:      7,
		ShippingID:  3,
		CartIDs:     "5,6",
		PaymentType: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, int(domain.StatusUnpaid), resp.Status)
	assert.True(t, resp.PaymentAmount.Equal(decimal.NewFromFloat(15.99)), "amount = %s", resp.PaymentAmount)

	stored, err := f.repo.FindByOrderNo(context.Background(), resp.OrderNo)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.True(t, stored.Items[1].TotalPrice.Equal(decimal.NewFromFloat(9.00)))

	// 第一级延迟已弹出并投递，信封里还剩两级
	require.Len(t, f.scheduler.delays, 1)
	assert.Equal(t, 10*time.Second, f.scheduler.delays[0])
	assert.Equal(t, []int64{10000, 30000}, f.scheduler.published[0].DelayMillis)

	assert.Equal(t, 1, f.notifier.confirmations)
	assert.Equal(t, 1, f.notifier.opsAlerts)
	assert.Equal(t, []string{"UNPAID"}, f.notifier.statusEvents)
}

func TestCreateOrderFallsBackToDefaultProduct(t *testing.T) {
	f := newFixture()
	// 购物车服务不可用: GetItems 返回空，999 也不在兜底目录里

	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:  7,
		CartIDs: "999",
	})
	require.NoError(t, err)

	stored, err := f.repo.FindByOrderNo(context.Background(), resp.OrderNo)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(1), stored.Items[0].ProductID)
	assert.Equal(t, "Drifter Bar - Cola 50/50 100ml Shortfill Eliquid", stored.Items[0].ProductName)
	assert.Equal(t, 1, stored.Items[0].Quantity)
	assert.True(t, resp.PaymentAmount.Equal(decimal.NewFromFloat(6.99)), "amount = %s", resp.PaymentAmount)
}

func TestCreateOrderHonorsClientTotal(t *testing.T) {
	f := newFixture()
	f.cart.items = []domain.CartItem{
		{ProductID: 1, UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
	}

	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:      7,
		CartIDs:     "5",
		TotalAmount: decimal.NewFromFloat(5.49), // 含促销价
	})
	require.NoError(t, err)
	assert.True(t, resp.PaymentAmount.Equal(decimal.NewFromFloat(5.49)))
}

func TestCreateOrderRequiresIdentity(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{CartIDs: "5"})
	assert.ErrorIs(t, err, domain.ErrMissingIdentity)
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.scheduler.published)
}

func TestCreateOrderSurvivesNotificationFailure(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("kafka unavailable")
	f.cart.items = []domain.CartItem{
		{ProductID: 1, UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
	}

	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{UserID: 7, CartIDs: "5"})
	require.NoError(t, err)

	_, err = f.repo.FindByOrderNo(context.Background(), resp.OrderNo)
	assert.NoError(t, err)
}

func TestCreateOrderSurvivesSchedulerFailure(t *testing.T) {
	f := newFixture()
	f.scheduler.err = errors.New("broker down")
	f.cart.items = []domain.CartItem{
		{ProductID: 1, UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
	}

	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{UserID: 7, CartIDs: "5"})
	require.NoError(t, err)

	stored, err := f.repo.FindByOrderNo(context.Background(), resp.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnpaid, stored.Status)
}

func TestCancellationChainCancelsWhenExhausted(t *testing.T) {
	f := newFixture(10*time.Second, 10*time.Second, 30*time.Second)
	f.cart.items = []domain.CartItem{
		{ProductID: 1, UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
	}

	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{UserID: 7, CartIDs: "5"})
	require.NoError(t, err)

	// 模拟延迟消息一级一级到期，直到信封耗尽
	for hops := 0; ; hops++ {
		require.Less(t, hops, 10, "cancellation chain did not terminate")
		next := f.scheduler.published[len(f.scheduler.published)-1]
		envelope := &domain.DelayEnvelope[int64]{
			Data:        next.Data,
			DelayMillis: append([]int64(nil), next.DelayMillis...),
		}
		require.NoError(t, f.svc.ProcessCancellationCheck(context.Background(), envelope))
		if !envelope.HasNextDelay() && len(f.scheduler.published) == hops+1 {
			break
		}
	}

	// 三级延迟 = 首次投递 + 两次重投
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second, 30 * time.Second}, f.scheduler.delays)

	stored, err := f.repo.FindByOrderNo(context.Background(), resp.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Contains(t, f.notifier.statusEvents, "CANCELLED")
}

func TestCancellationSkippedWhenPaid(t *testing.T) {
	f := newFixture()
	f.cart.items = []domain.CartItem{
		{ProductID: 1, UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
	}
	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{UserID: 7, CartIDs: "5"})
	require.NoError(t, err)

	// 两次延迟检查之间用户完成了支付
	f.repo.orders[resp.OrderNo].Status = domain.StatusPaid

	envelope := &domain.DelayEnvelope[int64]{Data: resp.OrderNo, DelayMillis: nil}
	require.NoError(t, f.svc.ProcessCancellationCheck(context.Background(), envelope))

	stored, _ := f.repo.FindByOrderNo(context.Background(), resp.OrderNo)
	assert.Equal(t, domain.StatusPaid, stored.Status)
	// 已支付的订单不触发任何重投
	assert.Len(t, f.scheduler.delays, 1)
}

func TestCancellationIdempotent(t *testing.T) {
	f := newFixture()
	f.cart.items = []domain.CartItem{
		{ProductID: 1, UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
	}
	resp, err := f.svc.CreateOrder(context.Background(), &CreateOrderRequest{UserID: 7, CartIDs: "5"})
	require.NoError(t, err)

	envelope := &domain.DelayEnvelope[int64]{Data: resp.OrderNo}
	require.NoError(t, f.svc.ProcessCancellationCheck(context.Background(), envelope))

	// 同一条消息被重复投递（at-least-once），第二次必须是无害的
	duplicate := &domain.DelayEnvelope[int64]{Data: resp.OrderNo}
	require.NoError(t, f.svc.ProcessCancellationCheck(context.Background(), duplicate))

	stored, _ := f.repo.FindByOrderNo(context.Background(), resp.OrderNo)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	cancelEvents := 0
	for _, s := range f.notifier.statusEvents {
		if s == "CANCELLED" {
			cancelEvents++
		}
	}
	assert.Equal(t, 1, cancelEvents)
}

func TestCancellationUnknownOrderDropped(t *testing.T) {
	f := newFixture()
	envelope := &domain.DelayEnvelope[int64]{Data: 404404}
	assert.NoError(t, f.svc.ProcessCancellationCheck(context.Background(), envelope))
	assert.Empty(t, f.scheduler.published)
}

func TestParseIDList(t *testing.T) {
	assert.Equal(t, []int64{5, 6}, parseIDList("5,6"))
	assert.Equal(t, []int64{5}, parseIDList(" 5 , abc, -1, 0 "))
	assert.Nil(t, parseIDList(""))
	assert.Nil(t, parseIDList("x,y"))
}
