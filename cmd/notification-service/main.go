// cmd/notification-service/main.go
package main

import (
	"context"

	"mall/internal/pkg/bootstrap"
	"mall/internal/pkg/mq"
	"mall/internal/service/notification"
)

const (
	serviceName       = "notification-service"
	servicePort       = 8086
	notificationTopic = "notifications"
)

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		Workers: []func(ctx context.Context) error{
			func(ctx context.Context) error {
				cfg := bootstrap.GetCurrentConfig()
				reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, notificationTopic, serviceName+"-group")
				email := notification.NewEmailService(cfg.Infra.SMTP.Host, cfg.Infra.SMTP.Port, cfg.Infra.SMTP.From)
				return notification.NewConsumer(reader, email).Run(ctx)
			},
		},
	})
}
