package authmodel

import (
	"fmt"
)

// Envelope 所有认证响应共有的头部
type Envelope struct {
	Status  int    `json:"status"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Head 返回响应头部，嵌入 Envelope 的类型都会获得该方法
func (e Envelope) Head() Envelope {
	return e
}

// Response 认证响应（和类型），只有本包内的三个变体实现
type Response interface {
	Head() Envelope
	isResponse()
}

// ErrorResponse 失败响应：ValidationErrorResponse 或 OtherErrorResponse
type ErrorResponse interface {
	Response
	isErrorResponse()
}

// SuccessResponse 登录成功
type SuccessResponse struct {
	Envelope
	User User `json:"user"`
}

// ValidationErrorResponse 字段校验失败，Fields 只包含当前无效的字段
type ValidationErrorResponse struct {
	Envelope
	Fields FieldErrors `json:"fields"`
}

// OtherErrorResponse 其余错误码（凭证错误、邮箱未验证、服务端错误等）
type OtherErrorResponse struct {
	Envelope
}

func (SuccessResponse) isResponse()         {}
func (ValidationErrorResponse) isResponse() {}
func (OtherErrorResponse) isResponse()      {}

func (ValidationErrorResponse) isErrorResponse() {}
func (OtherErrorResponse) isErrorResponse()      {}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(status int, message string, user User) SuccessResponse {
	return SuccessResponse{
		Envelope: Envelope{Status: status, Code: CodeSuccess, Message: message},
		User:     user,
	}
}

// NewValidationErrorResponse 创建校验失败响应，fields 为空时也保证非 nil
func NewValidationErrorResponse(status int, message string, fields FieldErrors) ValidationErrorResponse {
	if fields == nil {
		fields = FieldErrors{}
	}
	return ValidationErrorResponse{
		Envelope: Envelope{Status: status, Code: CodeValidationError, Message: message},
		Fields:   fields,
	}
}

// NewOtherErrorResponse 创建其余错误响应，code 必须是 success/validation_error 之外的已知错误码
func NewOtherErrorResponse(status int, code Code, message string) (OtherErrorResponse, error) {
	if !code.IsError() || code == CodeValidationError {
		return OtherErrorResponse{}, fmt.Errorf("结果码 %q 不能用于 OtherErrorResponse", code)
	}
	return OtherErrorResponse{
		Envelope: Envelope{Status: status, Code: code, Message: message},
	}, nil
}

// WithFields 返回替换了字段错误的副本
func (r ValidationErrorResponse) WithFields(fields FieldErrors) ValidationErrorResponse {
	return NewValidationErrorResponse(r.Status, r.Message, fields)
}

// MatchResponse 对 Response 做穷举分派，每个变体都必须提供处理函数
func MatchResponse[T any](
	r Response,
	onSuccess func(SuccessResponse) T,
	onValidation func(ValidationErrorResponse) T,
	onOther func(OtherErrorResponse) T,
) T {
	switch v := r.(type) {
	case SuccessResponse:
		return onSuccess(v)
	case ValidationErrorResponse:
		return onValidation(v)
	case OtherErrorResponse:
		return onOther(v)
	default:
		panic(fmt.Sprintf("authmodel: 未知的响应类型 %T", r))
	}
}

// MatchError 对 ErrorResponse 做穷举分派
func MatchError[T any](
	r ErrorResponse,
	onValidation func(ValidationErrorResponse) T,
	onOther func(OtherErrorResponse) T,
) T {
	switch v := r.(type) {
	case ValidationErrorResponse:
		return onValidation(v)
	case OtherErrorResponse:
		return onOther(v)
	default:
		panic(fmt.Sprintf("authmodel: 未知的错误响应类型 %T", r))
	}
}

// AsValidationError 若 r 是校验失败响应则返回它
func AsValidationError(r ErrorResponse) (ValidationErrorResponse, bool) {
	v, ok := r.(ValidationErrorResponse)
	return v, ok
}

// UnknownErrorFallback 网关以无法识别的值拒绝时使用的兜底响应
// 状态码沿用 400，与目录中 unknown_error 的 429 不同
func UnknownErrorFallback() OtherErrorResponse {
	return OtherErrorResponse{
		Envelope: Envelope{
			Status:  400,
			Code:    CodeUnknownError,
			Message: "Unknown Error occurred",
		},
	}
}

// RejectedError 网关以认证响应拒绝登录时返回的错误
type RejectedError struct {
	Response ErrorResponse
}

// Reject 包装失败响应为 error
func Reject(r ErrorResponse) *RejectedError {
	return &RejectedError{Response: r}
}

func (e *RejectedError) Error() string {
	if e == nil || e.Response == nil {
		return "auth rejected"
	}
	head := e.Response.Head()
	return fmt.Sprintf("auth rejected: [%d %s] %s", head.Status, head.Code, head.Message)
}
