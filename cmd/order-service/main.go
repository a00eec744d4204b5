// cmd/order-service/main.go
package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"mall/internal/pkg/bootstrap"
	"mall/internal/pkg/database"
	"mall/internal/pkg/httpclient"
	"mall/internal/pkg/logger"
	"mall/internal/pkg/metrics"
	"mall/internal/pkg/mq"
	"mall/internal/pkg/redis"
	"mall/internal/pkg/zookeeper"
	"mall/internal/service/order/application"
	"mall/internal/service/order/infrastructure"
	"mall/internal/service/order/infrastructure/adapter"
	"mall/internal/service/order/infrastructure/rule"
	"mall/internal/service/order/interfaces"
	"mall/internal/service/order/port"
)

const (
	serviceName = "order-service"
	servicePort = 8081
)

func main() {
	var consumer *interfaces.OrderTimeoutConsumer

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := appCtx.Cfg
			ctx := context.Background()

			db, err := database.Open(cfg.Infra.Mysql)
			if err != nil {
				logger.Ctx(ctx).Fatal().Err(err).Msg("failed to connect to mysql")
			}

			// Redis 不可用不阻塞启动，订单号走本地兜底序列
			rdb, err := redis.NewClient(cfg.Infra.Redis.Addrs)
			if err != nil {
				logger.Ctx(ctx).Warn().Err(err).Msg("redis unavailable, order numbers fall back to local sequence")
				rdb = nil
			}

			// 取消写入锁是可选增强，未配置 ZooKeeper 时由条件更新兜底
			var zkConn *zookeeper.Conn
			if len(cfg.Infra.Zookeeper.Addrs) > 0 {
				zkConn, err = zookeeper.Connect(cfg.Infra.Zookeeper.Addrs)
				if err != nil {
					logger.Ctx(ctx).Warn().Err(err).Msg("zookeeper unavailable, cancel lock disabled")
					zkConn = nil
				}
			}

			delayPolicy, err := rule.NewCELDelayPolicy(cfg.App.Order)
			if err != nil {
				logger.Ctx(ctx).Fatal().Err(err).Msg("invalid delay policy configuration")
			}

			tracer := otel.Tracer(serviceName)
			client := httpclient.NewClient(tracer)

			// 目录责任链: 远端商品服务 -> 静态兜底目录
			remoteCatalog := adapter.NewRemoteCatalog(client, cfg.Infra.Services.ProductServiceURL)
			remoteCatalog.SetNext(adapter.NewStaticCatalog())

			appSvc := application.NewOrderApplicationService(application.Deps{
				OrderRepo:   infrastructure.NewGormOrderRepository(db),
				CartSource:  adapter.NewCartHTTPAdapter(client, cfg.Infra.Services.CustomerServiceURL),
				Catalog:     remoteCatalog,
				Customers:   adapter.NewCustomerHTTPAdapter(client, cfg.Infra.Services.CustomerServiceURL),
				Notifier:    adapter.NewNotificationKafkaAdapter(cfg.Infra.Kafka.Brokers),
				Scheduler:   adapter.NewSchedulerKafkaAdapter(cfg.Infra.Kafka.Brokers),
				OrderNos:    adapter.NewSequenceRedisAdapter(rdb),
				DelayPolicy: delayPolicy,
				Tracer:      tracer,
				Metrics:     metrics.NewOrderMetrics(),
				OpsRecipient: port.CustomerInfo{
					Email: cfg.App.Order.OpsEmail,
					Name:  cfg.App.Order.OpsName,
				},
			})

			handler := interfaces.NewOrderHandler(appSvc, cfg.App.JWTSecret)
			handler.RegisterRoutes(appCtx.Mux)

			timeoutReader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, adapter.RealTopic, serviceName+"-timeout-group")
			consumer = interfaces.NewOrderTimeoutConsumer(timeoutReader, appSvc, zkConn)
		},
		Workers: []func(ctx context.Context) error{
			func(ctx context.Context) error {
				if err := consumer.Start(ctx); err != nil {
					return err
				}
				<-ctx.Done()
				consumer.Stop(context.Background())
				return nil
			},
		},
	})
}
