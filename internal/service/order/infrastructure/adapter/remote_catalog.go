// internal/service/order/infrastructure/adapter/remote_catalog.go
package adapter

import (
	"context"
	"fmt"

	"mall/internal/pkg/httpclient"
	"mall/internal/pkg/logger"
	"mall/internal/service/order/domain"
	"mall/internal/service/order/port"
)

// RemoteCatalog 通过商品服务查询商品快照，是目录责任链的首选节点。
// 查询失败时委托给链上的下一个节点。
type RemoteCatalog struct {
	client     *httpclient.Client
	serviceURL string
	next       port.CatalogLookup
}

func NewRemoteCatalog(client *httpclient.Client, serviceURL string) *RemoteCatalog {
	return &RemoteCatalog{client: client, serviceURL: serviceURL}
}

func (c *RemoteCatalog) Lookup(ctx context.Context, productID int64) (domain.CartItem, bool) {
	var item domain.CartItem
	url := fmt.Sprintf("%s/product/detail/%d", c.serviceURL, productID)
	if err := c.client.GetResult(ctx, url, &item); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("product_id", productID).
			Msg("remote catalog lookup failed, falling through")
		if c.next != nil {
			return c.next.Lookup(ctx, productID)
		}
		return domain.CartItem{}, false
	}
	if item.ProductID == 0 {
		item.ProductID = productID
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	return item, true
}

func (c *RemoteCatalog) SetNext(next port.CatalogLookup) port.CatalogLookup {
	c.next = next
	return next
}
