// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/metrics"
	"mall/internal/pkg/result"
	"mall/internal/service/order/application"
	"mall/internal/service/order/domain"
)

// orderUseCases 抽出 handler 依赖的应用服务方法，便于测试替身。
type orderUseCases interface {
	CreateOrder(ctx context.Context, req *application.CreateOrderRequest) (*application.CreateOrderResponse, error)
	GetOrderDetail(ctx context.Context, orderNo int64) (*application.OrderDetail, error)
	ListOrders(ctx context.Context, userID int64) ([]application.OrderDetail, error)
}

// OrderHandler 封装订单服务的 HTTP 处理器。
type OrderHandler struct {
	service   orderUseCases
	jwtSecret string
}

func NewOrderHandler(service orderUseCases, jwtSecret string) *OrderHandler {
	return &OrderHandler{service: service, jwtSecret: jwtSecret}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/order/add", JWTAuth(h.jwtSecret, h.createOrderHandler))
	mux.HandleFunc("/order/detail", JWTAuth(h.jwtSecret, h.orderDetailHandler))
	mux.HandleFunc("/order/list", JWTAuth(h.jwtSecret, h.orderListHandler))
}

// orderCreateDTO 是 POST /order/add 的请求体。
type orderCreateDTO struct {
	ShippingID  int64           `json:"shippingId"`
	CartIDs     string          `json:"cartIds"`
	PaymentType int             `json:"paymentType"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (h *OrderHandler) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var dto orderCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, result.Error("invalid request body"))
		return
	}

	resp, err := h.service.CreateOrder(ctx, &application.CreateOrderRequest{
		UserID:      UserIDFromContext(ctx),
		ShippingID:  dto.ShippingID,
		CartIDs:     dto.CartIDs,
		PaymentType: dto.PaymentType,
		TotalAmount: dto.TotalAmount,
	})
	if err != nil {
		if stderrors.Is(err, domain.ErrMissingIdentity) {
			writeJSON(w, http.StatusUnauthorized, result.Error("user identity required"))
			return
		}
		logger.Ctx(ctx).Error().Err(err).Msg("order creation failed")
		writeJSON(w, http.StatusInternalServerError, result.Error("order creation failed"))
		return
	}
	writeJSON(w, http.StatusOK, result.Ok(resp))
}

func (h *OrderHandler) orderDetailHandler(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	orderNo, err := strconv.ParseInt(r.URL.Query().Get("orderNo"), 10, 64)
	if err != nil || orderNo <= 0 {
		writeJSON(w, http.StatusBadRequest, result.Error("invalid orderNo"))
		return
	}

	detail, err := h.service.GetOrderDetail(ctx, orderNo)
	if err != nil {
		if stderrors.Is(err, domain.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, result.Error("order not found"))
			return
		}
		logger.Ctx(ctx).Error().Err(err).Int64("order_no", orderNo).Msg("order detail query failed")
		writeJSON(w, http.StatusInternalServerError, result.Error("order detail query failed"))
		return
	}
	// 订单归属校验: 不允许查看别人的订单
	if detail.UserID != UserIDFromContext(ctx) {
		writeJSON(w, http.StatusNotFound, result.Error("order not found"))
		return
	}
	writeJSON(w, http.StatusOK, result.Ok(detail))
}

func (h *OrderHandler) orderListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	orders, err := h.service.ListOrders(ctx, UserIDFromContext(ctx))
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("order list query failed")
		writeJSON(w, http.StatusInternalServerError, result.Error("order list query failed"))
		return
	}
	writeJSON(w, http.StatusOK, result.Ok(orders))
}

func writeJSON(w http.ResponseWriter, status int, body result.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
