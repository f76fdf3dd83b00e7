package store

import (
	"fmt"

	"tsu-login/internal/model/authmodel"
)

// Kind 状态名称，用于日志与指标
type Kind string

const (
	KindIdle    Kind = "idle"
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// State 登录状态机的状态（和类型），只有本包内的四个变体实现
type State interface {
	Kind() Kind
	isState()
}

// Idle 初始状态
type Idle struct{}

// Loading 等待网关返回
type Loading struct{}

// Success 登录成功
type Success struct {
	Payload authmodel.SuccessResponse
}

// Failure 登录失败（本地校验或网关错误）
type Failure struct {
	Payload authmodel.ErrorResponse
}

func (Idle) Kind() Kind    { return KindIdle }
func (Loading) Kind() Kind { return KindLoading }
func (Success) Kind() Kind { return KindSuccess }
func (Failure) Kind() Kind { return KindError }

func (Idle) isState()    {}
func (Loading) isState() {}
func (Success) isState() {}
func (Failure) isState() {}

// Match 对 State 做穷举分派
func Match[T any](
	s State,
	onIdle func() T,
	onLoading func() T,
	onSuccess func(authmodel.SuccessResponse) T,
	onFailure func(authmodel.ErrorResponse) T,
) T {
	switch v := s.(type) {
	case Idle:
		return onIdle()
	case Loading:
		return onLoading()
	case Success:
		return onSuccess(v.Payload)
	case Failure:
		return onFailure(v.Payload)
	default:
		panic(fmt.Sprintf("store: 未知的状态类型 %T", s))
	}
}

// ValidationFields 当前展示的字段校验错误；不处于校验失败时返回 nil
func ValidationFields(s State) authmodel.FieldErrors {
	failure, ok := s.(Failure)
	if !ok {
		return nil
	}
	validation, ok := authmodel.AsValidationError(failure.Payload)
	if !ok {
		return nil
	}
	return validation.Fields
}

// FieldError 字段下方展示的错误文案
func FieldError(s State, field authmodel.Field) string {
	return ValidationFields(s)[field]
}

// HasValidationError 是否处于字段校验失败
func HasValidationError(s State) bool {
	failure, ok := s.(Failure)
	if !ok {
		return false
	}
	_, ok = authmodel.AsValidationError(failure.Payload)
	return ok
}

// SubmitDisabled 加载中或存在字段校验错误时禁用提交
func SubmitDisabled(s State) bool {
	return s.Kind() == KindLoading || HasValidationError(s)
}

// Banner 表单顶部提示：成功或非校验类错误时返回消息
func Banner(s State) (message string, isError bool, ok bool) {
	type banner struct {
		message string
		isError bool
		ok      bool
	}
	b := Match(s,
		func() banner { return banner{} },
		func() banner { return banner{} },
		func(p authmodel.SuccessResponse) banner { return banner{message: p.Message, ok: true} },
		func(p authmodel.ErrorResponse) banner {
			return authmodel.MatchError(p,
				func(authmodel.ValidationErrorResponse) banner { return banner{} },
				func(o authmodel.OtherErrorResponse) banner {
					return banner{message: o.Message, isError: true, ok: true}
				},
			)
		},
	)
	return b.message, b.isError, b.ok
}
