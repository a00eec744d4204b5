package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPickLevel(t *testing.T) {
	a := NewSchedulerKafkaAdapter([]string{"localhost:9092"})

	tests := []struct {
		delay time.Duration
		want  string
	}{
		{3 * time.Second, "delay_topic_5s"},
		{5 * time.Second, "delay_topic_5s"},
		{10 * time.Second, "delay_topic_10s"},
		{12 * time.Second, "delay_topic_15s"},
		{30 * time.Second, "delay_topic_30s"},
		{45 * time.Second, "delay_topic_1m"},
		{5 * time.Minute, "delay_topic_10m"},
		{time.Hour, "delay_topic_10m"}, // 超出全部级别时取最大的
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.pickLevel(tt.delay), "delay %v", tt.delay)
	}
}
