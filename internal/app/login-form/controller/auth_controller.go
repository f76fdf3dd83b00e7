package controller

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tsu-login/internal/app/login-form/store"
	"tsu-login/internal/model/authmodel"
	"tsu-login/internal/pkg/ctxkey"
	"tsu-login/internal/pkg/log"
	"tsu-login/internal/pkg/metrics"
	"tsu-login/internal/pkg/validator"
	"tsu-login/internal/pkg/xerrors"
)

// SignInGateway 远程登录网关（在消费端定义）。
// 成功时返回 SuccessResponse；以认证结果拒绝时返回 *authmodel.RejectedError，
// 其它任何错误都视为无法识别
type SignInGateway interface {
	SignIn(ctx context.Context, creds authmodel.Credentials) (authmodel.SuccessResponse, error)
}

// AuthController 串联字段校验、网关调用与状态写入，是 Store 唯一的写入方
type AuthController struct {
	store   *store.Store
	gateway SignInGateway
	logger  log.Logger
	metrics *metrics.LoginMetrics
	service string
	newID   func() string
	clock   func() time.Time

	// 最近一次提交的序号，网关结果只有在序号仍是最新时才会写入
	latest atomic.Uint64
}

// Option 控制器可选配置
type Option func(*AuthController)

// WithLogger 指定 logger
func WithLogger(logger log.Logger) Option {
	return func(c *AuthController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics 指定指标收集器
func WithMetrics(m *metrics.LoginMetrics) Option {
	return func(c *AuthController) {
		c.metrics = m
	}
}

// WithServiceName 指定指标中的 service 标签
func WithServiceName(service string) Option {
	return func(c *AuthController) {
		c.service = service
	}
}

// WithIDGenerator 指定提交 ID 生成函数
func WithIDGenerator(fn func() string) Option {
	return func(c *AuthController) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// NewAuthController 是 AuthController 的构造函数，用于依赖注入
func NewAuthController(s *store.Store, gateway SignInGateway, opts ...Option) *AuthController {
	c := &AuthController{
		store:   s,
		gateway: gateway,
		logger:  log.GetLogger(),
		metrics: metrics.DefaultLoginMetrics,
		newID:   uuid.NewString,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "auth_controller")
	return c
}

// State 当前状态（只读）
func (c *AuthController) State() store.State {
	return c.store.Get()
}

// Submit 提交登录表单。
// 字段无效时直接进入校验失败，网关不会被调用；否则进入 Loading 并等待网关结果。
// 返回处理结束时的状态
func (c *AuthController) Submit(ctx context.Context, creds authmodel.Credentials) store.State {
	seq := c.latest.Add(1)
	attemptID := c.newID()
	ctx = ctxkey.WithValue(ctx, ctxkey.AttemptID, attemptID)

	c.logger.InfoContext(ctx, "接收到登录提交",
		log.String("email", creds.Email),
		log.Bool("remember_me", creds.RememberMe),
	)

	if fields := validator.CollectFieldErrors(creds, authmodel.AllFields(), nil); fields != nil {
		c.logger.InfoContext(ctx, "登录表单校验未通过", log.Any("fields", fields))
		c.metrics.IncAttempt(c.service, string(authmodel.CodeValidationError))
		next := store.Failure{Payload: authmodel.ValidationTemplate().WithFields(fields)}
		return c.apply(ctx, seq, next)
	}

	// Loading 与结果走同一个序号检查，已有更新的提交时不再调用网关
	if current, ok := c.write(seq, store.Loading{}); !ok {
		c.dropStale(ctx, seq, store.Loading{})
		return current
	}

	start := c.clock()
	resp, err := c.gateway.SignIn(ctx, creds)
	elapsed := c.clock().Sub(start)

	next := c.resolve(ctx, resp, err)
	outcome := string(outcomeCode(next))
	c.metrics.ObserveDuration(c.service, outcome, elapsed)
	c.metrics.IncAttempt(c.service, outcome)

	return c.apply(ctx, seq, next)
}

// OnFieldInteraction 对单个字段重新校验（失焦时触发）。
// 其它字段已展示的错误保持不变；没有任何错误时回到 Idle。加载中忽略
func (c *AuthController) OnFieldInteraction(field authmodel.Field, creds authmodel.Credentials) store.State {
	return c.store.Update(func(current store.State) store.State {
		if current.Kind() == store.KindLoading {
			return nil
		}
		return revalidate(current, field, creds)
	})
}

// OnFieldBlur 字段失焦
func (c *AuthController) OnFieldBlur(field authmodel.Field, creds authmodel.Credentials) store.State {
	return c.OnFieldInteraction(field, creds)
}

// OnFieldChange 字段内容变化，仅当该字段正在展示校验错误时才重新校验
func (c *AuthController) OnFieldChange(field authmodel.Field, creds authmodel.Credentials) store.State {
	return c.store.Update(func(current store.State) store.State {
		if store.FieldError(current, field) == "" {
			return nil
		}
		return revalidate(current, field, creds)
	})
}

func revalidate(current store.State, field authmodel.Field, creds authmodel.Credentials) store.State {
	fields := validator.CollectFieldErrors(creds, []authmodel.Field{field}, store.ValidationFields(current))
	if fields == nil {
		return store.Idle{}
	}
	return store.Failure{Payload: authmodel.ValidationTemplate().WithFields(fields)}
}

// resolve 把网关结果映射为下一个状态
func (c *AuthController) resolve(ctx context.Context, resp authmodel.SuccessResponse, err error) store.State {
	if err == nil {
		c.logger.InfoContext(ctx, "登录成功", log.String("user_id", resp.User.ID))
		return store.Success{Payload: resp}
	}

	var rejected *authmodel.RejectedError
	if errors.As(err, &rejected) && rejected.Response != nil && rejected.Response.Head().Code.IsError() {
		head := rejected.Response.Head()
		c.logger.WarnContext(ctx, "网关拒绝登录",
			log.Int("status", head.Status),
			log.String("code", string(head.Code)),
			log.String("message", head.Message),
		)
		return store.Failure{Payload: rejected.Response}
	}

	var appErr *xerrors.AppError
	if errors.As(err, &appErr) {
		log.LogAppError(ctx, c.logger, "网关返回无法识别的错误", appErr.WithAttemptID(ctxkey.GetString(ctx, ctxkey.AttemptID)))
	} else {
		c.logger.ErrorContext(ctx, "网关返回无法识别的错误", log.Any("error", err))
	}
	return store.Failure{Payload: authmodel.UnknownErrorFallback()}
}

// apply 写入状态；若已有更新的提交则丢弃本次结果
func (c *AuthController) apply(ctx context.Context, seq uint64, next store.State) store.State {
	result, ok := c.write(seq, next)
	if !ok {
		c.dropStale(ctx, seq, next)
	}
	return result
}

// write 仅当 seq 仍是最新提交时写入 next，返回写入后的状态及是否写入
func (c *AuthController) write(seq uint64, next store.State) (store.State, bool) {
	written := true
	result := c.store.Update(func(store.State) store.State {
		if c.latest.Load() != seq {
			written = false
			return nil
		}
		return next
	})
	return result, written
}

func (c *AuthController) dropStale(ctx context.Context, seq uint64, dropped store.State) {
	c.metrics.IncStaleResult(c.service)
	c.logger.WarnContext(ctx, "丢弃过期的登录结果",
		log.Uint64("seq", seq),
		log.String("dropped_state", string(dropped.Kind())),
	)
}

func outcomeCode(s store.State) authmodel.Code {
	return store.Match(s,
		func() authmodel.Code { return "" },
		func() authmodel.Code { return "" },
		func(p authmodel.SuccessResponse) authmodel.Code { return p.Code },
		func(p authmodel.ErrorResponse) authmodel.Code { return p.Head().Code },
	)
}
