package authmodel

// Code 认证结果码，闭合枚举，取值即线上传输的字符串
type Code string

const (
	CodeSuccess            Code = "success"
	CodeValidationError    Code = "validation_error"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeEmailNotVerified   Code = "email_not_verified"
	CodeInternalError      Code = "internal_error"
	CodeServiceUnavailable Code = "service_unavailable"
	CodeUnknownError       Code = "unknown_error"
)

// ErrorClass 错误分类
type ErrorClass string

const (
	ClassNone       ErrorClass = ""
	ClassValidation ErrorClass = "validation" // 本地字段校验，用户修改即可恢复
	ClassDomain     ErrorClass = "domain"     // 网关返回的业务失败
	ClassTransient  ErrorClass = "transient"  // 服务端暂时不可用
	ClassUnknown    ErrorClass = "unknown"
)

var allCodes = []Code{
	CodeSuccess,
	CodeValidationError,
	CodeInvalidCredentials,
	CodeEmailNotVerified,
	CodeInternalError,
	CodeServiceUnavailable,
	CodeUnknownError,
}

// Codes 按固定顺序返回全部结果码
func Codes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes)
	return out
}

// Valid 检查是否为已知结果码
func (c Code) Valid() bool {
	for _, known := range allCodes {
		if c == known {
			return true
		}
	}
	return false
}

// IsError 除 success 外的已知结果码都是错误
func (c Code) IsError() bool {
	return c.Valid() && c != CodeSuccess
}

// Class 返回错误分类，success 返回 ClassNone
func (c Code) Class() ErrorClass {
	switch c {
	case CodeSuccess:
		return ClassNone
	case CodeValidationError:
		return ClassValidation
	case CodeInvalidCredentials, CodeEmailNotVerified:
		return ClassDomain
	case CodeInternalError, CodeServiceUnavailable:
		return ClassTransient
	default:
		return ClassUnknown
	}
}

func (c Code) String() string {
	return string(c)
}
