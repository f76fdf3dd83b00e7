// File: internal/pkg/xerrors/codes.go
package xerrors

import "fmt"

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (未定义的错误码)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "未知错误"
}

// -----------------------------------------------------------------------------
// 错误码定义
// 认证结果（凭证错误、邮箱未验证等）由 authmodel.Code 表达，
// 这里只描述客户端自身以及与外部服务通信时的故障。
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess        ErrorCode = 100000 // 操作成功
	CodeInternalError  ErrorCode = 100001 // 内部错误
	CodeInvalidConfig  ErrorCode = 100003 // 配置错误
	CodeRequestTimeout ErrorCode = 100408 // 请求超时
	CodeCanceled       ErrorCode = 100499 // 请求被取消

	// 7xxxxx: 外部服务错误码
	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeKratosError          ErrorCode = 700002 // Kratos服务错误
	CodeMalformedResponse    ErrorCode = 700006 // 外部服务响应格式错误
)

// -----------------------------------------------------------------------------
// 错误消息映射
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:        "操作成功",
	CodeInternalError:  "内部错误",
	CodeInvalidConfig:  "配置错误",
	CodeRequestTimeout: "请求超时",
	CodeCanceled:       "请求已取消",

	CodeExternalServiceError: "外部服务错误",
	CodeKratosError:          "认证服务错误",
	CodeMalformedResponse:    "外部服务响应格式错误",
}

// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 700000 && code < 800000:
		return "external"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code == CodeCanceled:
		return LevelWarn
	case code >= 700001: // 外部服务错误
		return LevelCritical
	default:
		return LevelError
	}
}

// isRetryableByCode 根据错误码判断是否可重试
// 客户端从不自动重试，该标记仅供展示与日志使用
func isRetryableByCode(code ErrorCode) bool {
	retryableCodes := map[ErrorCode]bool{
		CodeInternalError:        true,
		CodeRequestTimeout:       true,
		CodeExternalServiceError: true,
		CodeKratosError:          true,
	}
	return retryableCodes[code]
}
