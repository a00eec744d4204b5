package port

import "context"

// CustomerInfo 是通知收件人需要的最小客户信息。
type CustomerInfo struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// CustomerDirectory 是客户服务的出站端口。
type CustomerDirectory interface {
	// GetCustomerByID 查询客户的邮箱和称呼。
	// 客户服务不可用时返回合成的兜底信息，而不是错误。
	GetCustomerByID(ctx context.Context, userID int64) CustomerInfo
}
