// internal/service/order/interfaces/middleware.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"mall/internal/pkg/logger"
	"mall/internal/pkg/result"
)

type contextKey string

const userIDKey contextKey = "mall.userId"

// UserIDFromContext 取出 JWT 中间件解析出的用户 ID，未认证时返回 0。
func UserIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v
	}
	return 0
}

// JWTAuth 校验 Authorization: Bearer 头里的 HS256 令牌，
// 把 userId claim 放进请求上下文。缺失或非法一律 401。
func JWTAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Ctx(r.Context()).Warn().Err(err).Msg("rejected request with invalid token")
			writeUnauthorized(w, "invalid token")
			return
		}

		userID := extractUserID(claims)
		if userID == 0 {
			writeUnauthorized(w, "token has no user identity")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// extractUserID 兼容 userId 以数字或字符串形式出现的令牌。
func extractUserID(claims jwt.MapClaims) int64 {
	switch v := claims["userId"].(type) {
	case float64:
		return int64(v)
	case json.Number:
		id, _ := v.Int64()
		return id
	default:
		return 0
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(result.Error(message))
}
