// internal/service/order/application/service.go
package application

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/metrics"
	"mall/internal/service/order/domain"
	"mall/internal/service/order/port"
)

// OrderApplicationService 负责下单编排与超时取消两条业务流程。
type OrderApplicationService struct {
	orderRepo   domain.OrderRepository
	cartSource  port.CartSource
	catalog     port.CatalogLookup // 责任链头节点，链尾保证必有结果
	customers   port.CustomerDirectory
	notifier    port.NotificationProducer
	scheduler   port.DelayScheduler
	orderNos    port.OrderNoAllocator
	delayPolicy port.DelayPolicy
	tracer      trace.Tracer
	metrics     *metrics.OrderMetrics

	opsRecipient port.CustomerInfo
}

// Deps 聚合了构造应用服务所需的全部依赖。
type Deps struct {
	OrderRepo    domain.OrderRepository
	CartSource   port.CartSource
	Catalog      port.CatalogLookup
	Customers    port.CustomerDirectory
	Notifier     port.NotificationProducer
	Scheduler    port.DelayScheduler
	OrderNos     port.OrderNoAllocator
	DelayPolicy  port.DelayPolicy
	Tracer       trace.Tracer
	Metrics      *metrics.OrderMetrics
	OpsRecipient port.CustomerInfo
}

func NewOrderApplicationService(deps Deps) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo:    deps.OrderRepo,
		cartSource:   deps.CartSource,
		catalog:      deps.Catalog,
		customers:    deps.Customers,
		notifier:     deps.Notifier,
		scheduler:    deps.Scheduler,
		orderNos:     deps.OrderNos,
		delayPolicy:  deps.DelayPolicy,
		tracer:       deps.Tracer,
		metrics:      deps.Metrics,
		opsRecipient: deps.OpsRecipient,
	}
}

// CreateOrder 是下单入口。
// 硬失败只有两种: 缺少用户身份、订单持久化失败。
// 购物车不可用走兜底目录，通知和延迟调度失败只记日志。
func (s *OrderApplicationService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "order.CreateOrder")
	defer span.End()

	if req.UserID == 0 {
		span.SetStatus(codes.Error, "missing identity")
		return nil, domain.ErrMissingIdentity
	}

	orderNo, err := s.orderNos.NextOrderNo(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.no", orderNo))

	cartItems, usedFallback := s.resolveCartItems(ctx, req.CartIDs)
	if usedFallback && s.metrics != nil {
		s.metrics.CartFallbackHits.Inc()
	}

	// 非零的前端总价直接采信（可能叠加了这里未建模的促销/运费），
	// 否则按行小计求和。金额在创建后不再变化。
	amount := req.TotalAmount
	if amount.IsZero() {
		amount = TotalOf(cartItems)
	}

	now := time.Now()
	order := &domain.Order{
		OrderNo:       orderNo,
		UserID:        req.UserID,
		ShippingID:    req.ShippingID,
		PaymentType:   req.PaymentType,
		PaymentAmount: amount,
		Status:        domain.StatusUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range cartItems {
		order.Items = append(order.Items, item.ToOrderItem(orderNo, req.UserID))
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist order")
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	span.AddEvent("order persisted", trace.WithAttributes(attribute.Int("order.lines", len(order.Items))))

	s.sendCheckoutNotifications(ctx, order)
	s.seedCancellation(ctx, order)

	return &CreateOrderResponse{
		OrderNo:       order.OrderNo,
		UserID:        order.UserID,
		Status:        int(order.Status),
		PaymentAmount: order.PaymentAmount,
		Message:       "Order submitted successfully",
	}, nil
}

// resolveCartItems 解析购物车条目并兜底:
//  1. 购物车服务有结果 -> 原样快照;
//  2. 购物车为空/不可用 -> 把 ID 当商品 ID 走目录责任链;
//  3. 一个可用 ID 都没有 -> 合成一条默认商品、数量 1。
// 无论哪条路径，返回值至少有一行。
func (s *OrderApplicationService) resolveCartItems(ctx context.Context, cartIDs string) (items []domain.CartItem, usedFallback bool) {
	ids := parseIDList(cartIDs)

	if len(ids) > 0 {
		if fetched := s.cartSource.GetItems(ctx, ids); len(fetched) > 0 {
			return fetched, false
		}
		logger.Ctx(ctx).Warn().Str("cart_ids", cartIDs).
			Msg("cart service returned no items, treating ids as product ids")
		for _, id := range ids {
			if item, ok := s.catalog.Lookup(ctx, id); ok {
				items = append(items, item)
			}
		}
	}

	if len(items) == 0 {
		// 目录链尾对任何 ID 都给默认商品，这里用 0 表达“查兜底”
		item, _ := s.catalog.Lookup(ctx, 0)
		items = append(items, item)
	}
	return items, true
}

// sendCheckoutNotifications 下单成功后的尽力而为副作用。
// 任何失败都只记录，绝不回滚或失败订单。
func (s *OrderApplicationService) sendCheckoutNotifications(ctx context.Context, order *domain.Order) {
	recipient := s.customers.GetCustomerByID(ctx, order.UserID)

	if err := s.notifier.SendOrderConfirmation(ctx, order, recipient); err != nil {
		s.countNotifyFailure()
		logger.Ctx(ctx).Error().Err(err).Int64("order_no", order.OrderNo).
			Msg("failed to publish order confirmation notification")
	}
	if err := s.notifier.SendOpsAlert(ctx, order, s.opsRecipient); err != nil {
		s.countNotifyFailure()
		logger.Ctx(ctx).Error().Err(err).Int64("order_no", order.OrderNo).
			Msg("failed to publish ops alert notification")
	}
	if err := s.notifier.PublishStatusChanged(ctx, order, "Your order has been created and is waiting for payment."); err != nil {
		s.countNotifyFailure()
		logger.Ctx(ctx).Error().Err(err).Int64("order_no", order.OrderNo).
			Msg("failed to publish order status event")
	}
}

// seedCancellation 为新订单挂上第一级延迟取消检查。
func (s *OrderApplicationService) seedCancellation(ctx context.Context, order *domain.Order) {
	stages := s.delayPolicy.StagesFor(order)
	envelope := domain.NewDelayEnvelope(order.OrderNo, stages...)
	if err := s.scheduler.ScheduleCancellation(ctx, envelope); err != nil {
		// 调度失败不影响订单创建，订单会一直停在 UNPAID 等人工处理
		logger.Ctx(ctx).Error().Err(err).Int64("order_no", order.OrderNo).
			Msg("failed to schedule cancellation check")
	}
}

// ProcessCancellationCheck 处理一条到期的取消检查信封。
// 这是取消调度器的消费端逻辑:
//   - 订单不存在或已离开 UNPAID -> 丢弃;
//   - 还有剩余延迟 -> 弹出下一级重新投递;
//   - 没有剩余延迟 -> 条件写入 CANCELLED。
// 返回的错误只用于消费方记录，消息无论如何都会被提交。
func (s *OrderApplicationService) ProcessCancellationCheck(ctx context.Context, envelope *domain.DelayEnvelope[int64]) error {
	ctx, span := s.tracer.Start(ctx, "order.ProcessCancellationCheck", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	orderNo := envelope.Data
	span.SetAttributes(
		attribute.Int64("order.no", orderNo),
		attribute.Int("envelope.remaining", len(envelope.DelayMillis)),
	)

	order, err := s.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		if err == domain.ErrOrderNotFound {
			logger.Ctx(ctx).Warn().Int64("order_no", orderNo).Msg("timeout check for unknown order, dropping")
			return nil
		}
		span.RecordError(err)
		return err
	}

	// 并发保护: 两次信封投递之间订单可能已被支付或已被取消。
	// 状态不再是 UNPAID 就静默丢弃，这也保证了 at-least-once 下的幂等。
	if order.Status != domain.StatusUnpaid {
		logger.Ctx(ctx).Info().Int64("order_no", orderNo).Str("status", order.Status.String()).
			Msg("order already left UNPAID, dropping timeout check")
		span.AddEvent("dropped: order not unpaid")
		return nil
	}

	if envelope.HasNextDelay() {
		if s.metrics != nil {
			s.metrics.EnvelopeHops.Inc()
		}
		if err := s.scheduler.ScheduleCancellation(ctx, envelope); err != nil {
			// 重新投递失败: 记录后丢弃，不再有后续检查（已知缺口）
			span.RecordError(err)
			logger.Ctx(ctx).Error().Err(err).Int64("order_no", orderNo).
				Msg("failed to re-publish delay envelope, cancellation chain broken")
			return err
		}
		return nil
	}

	updated, err := s.orderRepo.UpdateStatusIf(ctx, orderNo, domain.StatusUnpaid, domain.StatusCancelled)
	if err != nil {
		// 终态写入失败: 订单停留在 UNPAID，等人工介入（已知缺口）
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Int64("order_no", orderNo).Msg("failed to cancel order")
		return err
	}
	if !updated {
		logger.Ctx(ctx).Info().Int64("order_no", orderNo).
			Msg("order transitioned concurrently, cancel skipped")
		span.AddEvent("dropped: conditional update lost")
		return nil
	}

	if s.metrics != nil {
		s.metrics.OrdersCancelled.Inc()
	}
	logger.Ctx(ctx).Warn().Int64("order_no", orderNo).Msg("order cancelled after payment timeout")
	span.AddEvent("order cancelled")

	order.Status = domain.StatusCancelled
	if err := s.notifier.PublishStatusChanged(ctx, order, "Your order was cancelled because payment did not arrive in time."); err != nil {
		s.countNotifyFailure()
		logger.Ctx(ctx).Error().Err(err).Int64("order_no", orderNo).
			Msg("failed to publish cancellation status event")
	}
	return nil
}

// GetOrderDetail 返回订单详情（头 + 行）。
func (s *OrderApplicationService) GetOrderDetail(ctx context.Context, orderNo int64) (*OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "order.GetOrderDetail")
	defer span.End()

	order, err := s.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	return toOrderDetail(order), nil
}

// ListOrders 返回用户的订单列表。
func (s *OrderApplicationService) ListOrders(ctx context.Context, userID int64) ([]OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "order.ListOrders")
	defer span.End()

	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		out = append(out, *toOrderDetail(&orders[i]))
	}
	return out, nil
}

func (s *OrderApplicationService) countNotifyFailure() {
	if s.metrics != nil {
		s.metrics.NotifyFailures.Inc()
	}
}

// parseIDList 解析逗号分隔的 ID 列表，静默跳过非法片段。
func parseIDList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
