// internal/pkg/result/result.go
package result

import "encoding/json"

// Result 是所有 mall 服务间以及对前端的统一响应包装。
// code = 0 表示成功，非 0 表示业务错误。
type Result struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response 是带任意 data 的出站形式（序列化用）。
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Ok(data interface{}) Response {
	return Response{Code: 0, Data: data}
}

func Error(message string) Response {
	return Response{Code: 1, Message: message}
}

// IsOK 判断下游服务的响应是否成功。
func (r *Result) IsOK() bool {
	return r.Code == 0
}
