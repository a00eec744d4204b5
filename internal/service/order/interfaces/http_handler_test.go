package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall/internal/service/order/application"
	"mall/internal/service/order/domain"
)

const testSecret = "test-secret"

// stubUseCases 记录调用入参并返回预置结果。
type stubUseCases struct {
	lastCreate *application.CreateOrderRequest
	createResp *application.CreateOrderResponse
	createErr  error
	detail     *application.OrderDetail
	detailErr  error
}

func (s *stubUseCases) CreateOrder(_ context.Context, req *application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
	s.lastCreate = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createResp, nil
}

func (s *stubUseCases) GetOrderDetail(context.Context, int64) (*application.OrderDetail, error) {
	return s.detail, s.detailErr
}

func (s *stubUseCases) ListOrders(context.Context, int64) ([]application.OrderDetail, error) {
	return nil, nil
}

func signToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestMux(stub *stubUseCases) *http.ServeMux {
	mux := http.NewServeMux()
	NewOrderHandler(stub, testSecret).RegisterRoutes(mux)
	return mux
}

func TestCreateOrderRequiresToken(t *testing.T) {
	mux := newTestMux(&stubUseCases{})

	req := httptest.NewRequest(http.MethodPost, "/order/add", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderRejectsInvalidToken(t *testing.T) {
	mux := newTestMux(&stubUseCases{})

	req := httptest.NewRequest(http.MethodPost, "/order/add", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderPassesIdentityFromToken(t *testing.T) {
	stub := &stubUseCases{
		createResp: &application.CreateOrderResponse{OrderNo: 20240501123, UserID: 7, Status: 1},
	}
	mux := newTestMux(stub)

	body := `{"shippingId":3,"cartIds":"5,6","paymentType":1,"totalAmount":"15.99"}`
	req := httptest.NewRequest(http.MethodPost, "/order/add", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastCreate)
	assert.Equal(t, int64(7), stub.lastCreate.UserID)
	assert.Equal(t, "5,6", stub.lastCreate.CartIDs)
	assert.True(t, stub.lastCreate.TotalAmount.Equal(decimal.NewFromFloat(15.99)))

	var envelope struct {
		Code int             `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 0, envelope.Code)
	assert.Contains(t, string(envelope.Data), "20240501123")
}

func TestCreateOrderRejectsBadBody(t *testing.T) {
	mux := newTestMux(&stubUseCases{})

	req := httptest.NewRequest(http.MethodPost, "/order/add", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderDetailHidesOtherUsersOrders(t *testing.T) {
	stub := &stubUseCases{
		detail: &application.OrderDetail{OrderNo: 20240501123, UserID: 99},
	}
	mux := newTestMux(stub)

	req := httptest.NewRequest(http.MethodGet, "/order/detail?orderNo=20240501123", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderDetailNotFound(t *testing.T) {
	stub := &stubUseCases{detailErr: domain.ErrOrderNotFound}
	mux := newTestMux(stub)

	req := httptest.NewRequest(http.MethodGet, "/order/detail?orderNo=1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
