// internal/service/order/infrastructure/rule/delay_policy.go
package rule

import (
	"time"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"mall/internal/pkg/config"
	"mall/internal/pkg/logger"
	"mall/internal/service/order/domain"
)

// CELDelayPolicy 实现 port.DelayPolicy。
// 档位选择交给一条可配置的 CEL 表达式，运营调整超时策略不用改代码。
// 表达式入参是订单事实 order（map），返回档位名字符串，例如:
//
//	order.payment_amount >= 100.0 ? "extended" : "standard"
type CELDelayPolicy struct {
	program        cel.Program
	profiles       config.OrderConfig
	defaultProfile string
}

// NewCELDelayPolicy 编译表达式。编译失败直接返回错误，
// 宁可启动失败也不要带着坏策略上线。
func NewCELDelayPolicy(orderCfg config.OrderConfig) (*CELDelayPolicy, error) {
	if len(orderCfg.Stages(orderCfg.DefaultProfile)) == 0 {
		return nil, errors.Errorf("default delay profile %q is missing or empty", orderCfg.DefaultProfile)
	}

	env, err := cel.NewEnv(cel.Variable("order", cel.MapType(cel.StringType, cel.DynType)))
	if err != nil {
		return nil, errors.Wrap(err, "create cel env")
	}
	ast, issues := env.Compile(orderCfg.DelayPolicy)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrap(issues.Err(), "compile delay policy expression")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "build delay policy program")
	}

	return &CELDelayPolicy{
		program:        program,
		profiles:       orderCfg,
		defaultProfile: orderCfg.DefaultProfile,
	}, nil
}

// StagesFor 评估表达式选出档位。评估出错、返回非字符串、
// 或者档位不存在时一律落回默认档位，保证返回值永远非空。
func (p *CELDelayPolicy) StagesFor(order *domain.Order) []time.Duration {
	amount, _ := order.PaymentAmount.Float64()
	out, _, err := p.program.Eval(map[string]interface{}{
		"order": map[string]interface{}{
			"order_no":       order.OrderNo,
			"user_id":        order.UserID,
			"payment_type":   order.PaymentType,
			"payment_amount": amount,
			"line_count":     len(order.Items),
		},
	})
	if err != nil {
		logger.L().Warn().Err(err).Int64("order_no", order.OrderNo).
			Msg("delay policy evaluation failed, using default profile")
		return p.profiles.Stages(p.defaultProfile)
	}

	profile, ok := out.Value().(string)
	if !ok {
		logger.L().Warn().Int64("order_no", order.OrderNo).
			Msg("delay policy returned non-string, using default profile")
		return p.profiles.Stages(p.defaultProfile)
	}
	stages := p.profiles.Stages(profile)
	if len(stages) == 0 {
		logger.L().Warn().Str("profile", profile).Int64("order_no", order.OrderNo).
			Msg("delay policy selected unknown profile, using default")
		return p.profiles.Stages(p.defaultProfile)
	}
	return stages
}
