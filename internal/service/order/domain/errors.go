// internal/service/order/domain/errors.go
package domain

import "errors"

var (
	// ErrOrderNotFound 订单不存在。
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition 非法的状态流转。
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrMissingIdentity 请求缺少已认证的用户身份。
	ErrMissingIdentity = errors.New("authenticated user identity is required")
)
