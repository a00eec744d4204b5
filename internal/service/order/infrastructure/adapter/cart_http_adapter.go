// internal/service/order/infrastructure/adapter/cart_http_adapter.go
package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mall/internal/pkg/httpclient"
	"mall/internal/pkg/logger"
	"mall/internal/service/order/domain"
)

// CartHTTPAdapter 实现 port.CartSource，对接客户服务的购物车接口。
type CartHTTPAdapter struct {
	client     *httpclient.Client
	serviceURL string
}

func NewCartHTTPAdapter(client *httpclient.Client, serviceURL string) *CartHTTPAdapter {
	return &CartHTTPAdapter{client: client, serviceURL: serviceURL}
}

// GetItems 按购物车条目 ID 拉取快照。
// 约定: 这里永远不返回错误，失败一律降级为空切片，由上层走兜底目录。
func (a *CartHTTPAdapter) GetItems(ctx context.Context, cartIDs []int64) []domain.CartItem {
	if len(cartIDs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(cartIDs))
	for _, id := range cartIDs {
		parts = append(parts, strconv.FormatInt(id, 10))
	}

	var items []domain.CartItem
	url := fmt.Sprintf("%s/customer/cart/items/%s", a.serviceURL, strings.Join(parts, ","))
	if err := a.client.GetResult(ctx, url, &items); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("cart_ids", strings.Join(parts, ",")).
			Msg("cart service unavailable, degrading to empty cart")
		return nil
	}
	return items
}
