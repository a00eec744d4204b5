// cmd/push-gateway/main.go
package main

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"mall/internal/pkg/bootstrap"
	"mall/internal/pkg/logger"
	"mall/internal/pkg/mq"
	"mall/internal/pkg/redis"
	"mall/internal/pkg/session"
	"mall/internal/service/push"
)

const (
	serviceName      = "push-gateway"
	servicePort      = 8088
	orderStatusTopic = "order-status-topic"
)

func main() {
	nodeID := serviceName + "-" + uuid.NewString()[:8]
	var hub *push.Hub

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			rdb, err := redis.NewClient(appCtx.Cfg.Infra.Redis.Addrs)
			if err != nil {
				logger.Ctx(context.Background()).Fatal().Err(err).Msg("failed to connect to redis")
			}
			hub = push.NewHub(nodeID, session.NewManager(rdb))

			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
				push.ServeWs(hub, w, r)
			})
		},
		Workers: []func(ctx context.Context) error{
			func(ctx context.Context) error {
				return hub.Run(ctx)
			},
			func(ctx context.Context) error {
				cfg := bootstrap.GetCurrentConfig()
				// 每个网关节点独立消费组，人人都收到全量状态事件，
				// 各自只推送挂在本节点上的用户
				reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, orderStatusTopic, serviceName+"-group-"+nodeID)
				return push.NewConsumer(reader, hub).Run(ctx)
			},
		},
	})
}
