// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// 全局日志实例，所有服务共用同一份输出格式
var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// SetLevel 设置全局日志级别, e.g. "debug", "info", "warn"
func SetLevel(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		base = base.Level(lvl)
	}
}

// L 返回不绑定任何请求上下文的全局 Logger。
func L() *zerolog.Logger {
	return &base
}

// Ctx 返回一个绑定了当前追踪上下文的 Logger。
// 如果 ctx 中存在有效的 Span，日志会自动携带 trace_id / span_id，
// 方便在 Jaeger 和日志系统之间互相跳转。
func Ctx(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return &base
	}
	l := base.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &l
}
