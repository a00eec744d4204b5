// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"mall/internal/pkg/config"
	"mall/internal/pkg/logger"
	"mall/internal/pkg/nacos"
	"mall/internal/pkg/tracing"
	"mall/internal/pkg/utils"
)

var currentConfig atomic.Pointer[config.Config]

// GetCurrentConfig 返回进程级的当前配置。
// StartService 保证在业务代码运行前已经完成初始化。
func GetCurrentConfig() *config.Config {
	if cfg := currentConfig.Load(); cfg != nil {
		return cfg
	}
	return config.Default()
}

type AppCtx struct {
	Mux   *http.ServeMux
	Nacos *nacos.Client
	Cfg   *config.Config
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName string
	Port        int
	// RegisterHandlers 允许每个服务注册自己独特的 HTTP 路由。
	RegisterHandlers func(appCtx AppCtx)
	// Workers 是随服务生命周期运行的后台任务（如 Kafka 消费者）。
	// ctx 被取消时必须返回。
	Workers []func(ctx context.Context) error
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	// 1. 配置: 本地文件兜底，设置了 NACOS_CONFIG_DATA_ID 时从配置中心拉取
	cfg := loadConfig()
	currentConfig.Store(cfg)
	logger.SetLevel(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.Ctx(ctx).Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 3. Nacos 注册（可选，未配置地址时跳过）
	var namingClient *nacos.Client
	var ip string
	if addrs := os.Getenv("NACOS_SERVER_ADDRS"); addrs != "" {
		namingClient, err = nacos.NewClient(addrs, os.Getenv("NACOS_NAMESPACE"), os.Getenv("NACOS_GROUP"))
		if err != nil {
			logger.Ctx(ctx).Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		ip, err = utils.GetOutboundIP()
		if err != nil {
			logger.Ctx(ctx).Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := namingClient.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			logger.Ctx(ctx).Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	// 4. HTTP Server
	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Nacos: namingClient, Cfg: cfg})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Ctx(gctx).Info().Str("service", info.ServiceName).Int("port", info.Port).Msg("✅ listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	for _, worker := range info.Workers {
		w := worker
		g.Go(func() error { return w(gctx) })
	}

	// 5. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-gctx.Done():
	}
	logger.Ctx(ctx).Info().Str("service", info.ServiceName).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 按顺序清理（后进先出）
	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("error deregistering from nacos")
		}
		namingClient.Close()
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("error shutting down tracer provider")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("error shutting down http server")
	}

	cancel()
	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Ctx(ctx).Error().Err(err).Msg("worker exited with error")
	}
	logger.Ctx(ctx).Info().Str("service", info.ServiceName).Msg("gracefully shut down")
}

func loadConfig() *config.Config {
	if dataId := os.Getenv("NACOS_CONFIG_DATA_ID"); dataId != "" {
		if addrs := os.Getenv("NACOS_SERVER_ADDRS"); addrs != "" {
			client, err := nacos.NewClient(addrs, os.Getenv("NACOS_NAMESPACE"), os.Getenv("NACOS_GROUP"))
			if err == nil {
				defer client.Close()
				if content, err := client.GetConfig(dataId); err == nil && content != "" {
					if cfg, err := config.Parse([]byte(content)); err == nil {
						return cfg
					}
				}
			}
		}
	}
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Ctx(context.Background()).Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}
