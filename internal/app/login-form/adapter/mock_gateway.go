package adapter

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"tsu-login/internal/model/authmodel"
	"tsu-login/internal/pkg/log"
	"tsu-login/internal/pkg/xerrors"
)

// Picker 从候选结果中选出一个
type Picker func(candidates []authmodel.Response) authmodel.Response

// MockGateway 本地模拟的认证后端：等待一段时间后随机给出目录中的某个结果
type MockGateway struct {
	delay  time.Duration
	pick   Picker
	logger log.Logger
}

// MockOption MockGateway 可选配置
type MockOption func(*MockGateway)

// WithDelay 设置模拟延迟
func WithDelay(d time.Duration) MockOption {
	return func(g *MockGateway) {
		if d >= 0 {
			g.delay = d
		}
	}
}

// WithPicker 设置结果选择函数
func WithPicker(p Picker) MockOption {
	return func(g *MockGateway) {
		if p != nil {
			g.pick = p
		}
	}
}

// WithMockLogger 设置 logger
func WithMockLogger(logger log.Logger) MockOption {
	return func(g *MockGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// FixedOutcome 总是选择指定结果码
func FixedOutcome(code authmodel.Code) Picker {
	return func(candidates []authmodel.Response) authmodel.Response {
		for _, c := range candidates {
			if c.Head().Code == code {
				return c
			}
		}
		return authmodel.ResponseForCode(code)
	}
}

// RandomOutcome 均匀随机选择
func RandomOutcome(candidates []authmodel.Response) authmodel.Response {
	return candidates[rand.IntN(len(candidates))]
}

// NewMockGateway 默认 500ms 延迟、均匀随机
func NewMockGateway(opts ...MockOption) *MockGateway {
	g := &MockGateway{
		delay:  500 * time.Millisecond,
		pick:   RandomOutcome,
		logger: log.GetLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "mock_gateway")
	return g
}

// SignIn 实现 controller.SignInGateway
func (g *MockGateway) SignIn(ctx context.Context, creds authmodel.Credentials) (authmodel.SuccessResponse, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return authmodel.SuccessResponse{}, xerrors.NewExternalServiceError("mock", ctx.Err()).
				WithService("mock_gateway", "sign_in")
		case <-timer.C:
		}
	}

	outcome := g.pick(authmodel.RejectableResponses())
	g.logger.DebugContext(ctx, "模拟认证结果",
		log.String("email", creds.Email),
		log.String("code", string(outcome.Head().Code)),
	)

	return settle(outcome)
}

func (g *MockGateway) String() string {
	return fmt.Sprintf("mock(delay=%s)", g.delay)
}
