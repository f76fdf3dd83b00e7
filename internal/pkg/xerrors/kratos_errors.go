// File: internal/pkg/xerrors/kratos_errors.go
package xerrors

import "strings"

// KratosID Kratos UI 消息 ID
type KratosID int

// 登录流程会用到的 Kratos 消息 ID
const (
	ErrorValidationInvalidCredentials KratosID = 4000006
	ErrorValidationAddressNotVerified KratosID = 4000010
	ErrorValidationAccountNotFound    KratosID = 4000037

	ErrorValidationLoginAddressUnknown KratosID = 4010010

	ErrorSystem        KratosID = 5000000
	ErrorSystemGeneric KratosID = 5000001
)

// KratosLoginFailure Kratos 登录失败的归类
type KratosLoginFailure int

const (
	KratosFailureUnknown KratosLoginFailure = iota
	KratosFailureInvalidCredentials
	KratosFailureNotVerified
	KratosFailureSystem
)

// ClassifyKratosLoginID 按消息 ID 归类登录失败
func ClassifyKratosLoginID(id KratosID) KratosLoginFailure {
	switch id {
	case ErrorValidationInvalidCredentials, ErrorValidationAccountNotFound, ErrorValidationLoginAddressUnknown:
		return KratosFailureInvalidCredentials
	case ErrorValidationAddressNotVerified:
		return KratosFailureNotVerified
	case ErrorSystem, ErrorSystemGeneric:
		return KratosFailureSystem
	default:
		return KratosFailureUnknown
	}
}

// ClassifyKratosLoginText 消息 ID 未映射时按文本兜底归类
func ClassifyKratosLoginText(text string) KratosLoginFailure {
	lower := strings.ToLower(text)

	patterns := []struct {
		keywords []string
		failure  KratosLoginFailure
	}{
		{[]string{"credentials are invalid", "invalid credentials", "wrong credentials", "account not found", "user not found"}, KratosFailureInvalidCredentials},
		{[]string{"address is not verified", "email not verified", "not verified", "not active yet"}, KratosFailureNotVerified},
		{[]string{"internal server error", "system error"}, KratosFailureSystem},
	}

	for _, pattern := range patterns {
		for _, keyword := range pattern.keywords {
			if strings.Contains(lower, keyword) {
				return pattern.failure
			}
		}
	}
	return KratosFailureUnknown
}
