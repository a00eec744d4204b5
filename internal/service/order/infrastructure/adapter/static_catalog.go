// internal/service/order/infrastructure/adapter/static_catalog.go
package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"mall/internal/service/order/domain"
	"mall/internal/service/order/port"
)

const defaultProductID = 1

// fallbackCatalog 是商品服务不可用时的内置兜底目录。
// 数据是商品表的一份手工快照，价格可能滞后于线上，但保证下单不被阻断。
var fallbackCatalog = map[int64]domain.CartItem{
	1: {
		ProductID:    1,
		ProductName:  "Drifter Bar - Cola 50/50 100ml Shortfill Eliquid",
		ProductImage: "https://jake-mall-bucket.s3.eu-west-1.amazonaws.com/products/medium/b8d6851e-c2d7-41be-8b94-931bbc3e0922.jpg",
		UnitPrice:    decimal.NewFromFloat(6.99),
	},
	2: {
		ProductID:    2,
		ProductName:  "Drifter Bar - Pineapple Ice 50/50 100ml Shortfill Eliquid",
		ProductImage: "https://jake-mall-bucket.s3.eu-west-1.amazonaws.com/products/medium/1c82a942-3c47-448d-9b53-ac902e77639b.jpg",
		UnitPrice:    decimal.NewFromFloat(6.99),
	},
	3: {
		ProductID:    3,
		ProductName:  "Bar Juice 5000 Nic Salt - Butter Mints",
		ProductImage: "https://jake-mall-bucket.s3.eu-west-1.amazonaws.com/products/medium/8bbc0c4d-63e7-41bc-963d-cfbbc5bdcd9a.png",
		UnitPrice:    decimal.NewFromFloat(4.50),
	},
	4: {
		ProductID:    4,
		ProductName:  "Lost Mary 4 in 1 Prefilled Pod Kit - Fruits Edition",
		ProductImage: "https://jake-mall-bucket.s3.eu-west-1.amazonaws.com/products/medium/15fe0fa6-3a0d-4e27-8e3f-4819d71b7c5f.png",
		UnitPrice:    decimal.NewFromFloat(15.99),
	},
	7: {
		ProductID:    7,
		ProductName:  "VooPoo Argus Pro 80W Pod Kit",
		ProductImage: "https://jake-mall-bucket.s3.eu-west-1.amazonaws.com/products/medium/ad1c078f-ad73-41cc-93d5-880f9f44a36f.png",
		UnitPrice:    decimal.NewFromFloat(45.99),
	},
	8: {
		ProductID:    8,
		ProductName:  "IVG Nic Salt - Frozen Cherries 10ml Bottle",
		ProductImage: "https://jake-mall-bucket.s3.eu-west-1.amazonaws.com/products/medium/e86b53b2-4417-4be6-a88b-7d2445a2e21e.png",
		UnitPrice:    decimal.NewFromFloat(4.99),
	},
}

// StaticCatalog 是目录责任链的链尾: 先查内置快照，
// 连快照都没有时退化为默认商品，永远有结果。
type StaticCatalog struct{}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{}
}

// Lookup 永远返回 ok == true。
func (c *StaticCatalog) Lookup(_ context.Context, productID int64) (domain.CartItem, bool) {
	if item, ok := fallbackCatalog[productID]; ok {
		item.Quantity = 1
		return item, true
	}
	item := fallbackCatalog[defaultProductID]
	item.Quantity = 1
	return item, true
}

// SetNext 在链尾没有意义，原样返回入参以满足接口。
func (c *StaticCatalog) SetNext(next port.CatalogLookup) port.CatalogLookup {
	return next
}
