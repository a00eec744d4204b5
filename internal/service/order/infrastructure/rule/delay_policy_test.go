package rule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall/internal/pkg/config"
	"mall/internal/service/order/domain"
)

func orderCfg() config.OrderConfig {
	return config.Default().App.Order
}

func TestDelayPolicySelectsProfileByAmount(t *testing.T) {
	policy, err := NewCELDelayPolicy(orderCfg())
	require.NoError(t, err)

	small := &domain.Order{PaymentAmount: decimal.NewFromFloat(15.99)}
	assert.Equal(t, []time.Duration{
		10 * time.Second, 10 * time.Second, 10 * time.Second,
		15 * time.Second, 15 * time.Second, 30 * time.Second, 30 * time.Second,
	}, policy.StagesFor(small))

	large := &domain.Order{PaymentAmount: decimal.NewFromFloat(250)}
	assert.Equal(t, []time.Duration{time.Minute, 5 * time.Minute, 10 * time.Minute}, policy.StagesFor(large))
}

func TestDelayPolicyUnknownProfileFallsBack(t *testing.T) {
	cfg := orderCfg()
	cfg.DelayPolicy = `"no-such-profile"`

	policy, err := NewCELDelayPolicy(cfg)
	require.NoError(t, err)

	stages := policy.StagesFor(&domain.Order{})
	assert.Equal(t, cfg.Stages(cfg.DefaultProfile), stages)
	assert.NotEmpty(t, stages)
}

func TestDelayPolicyNonStringResultFallsBack(t *testing.T) {
	cfg := orderCfg()
	cfg.DelayPolicy = `order.line_count + 1`

	policy, err := NewCELDelayPolicy(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Stages(cfg.DefaultProfile), policy.StagesFor(&domain.Order{}))
}

func TestDelayPolicyRejectsBadExpression(t *testing.T) {
	cfg := orderCfg()
	cfg.DelayPolicy = `order.payment_amount >=` // 残缺表达式

	_, err := NewCELDelayPolicy(cfg)
	assert.Error(t, err)
}

func TestDelayPolicyRejectsMissingDefaultProfile(t *testing.T) {
	cfg := orderCfg()
	cfg.DefaultProfile = "missing"

	_, err := NewCELDelayPolicy(cfg)
	assert.Error(t, err)
}
