package xerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCode(t *testing.T) {
	appErr := FromCode(CodeExternalServiceError)
	assert.Equal(t, "外部服务错误", appErr.Message)
	assert.Equal(t, "external", appErr.Category)
	assert.Equal(t, LevelCritical, appErr.Level)
	assert.True(t, appErr.IsRetryable())

	unknown := FromCode(ErrorCode(123))
	assert.Equal(t, codeMessages[CodeInternalError], unknown.Message)
}

func TestNewExternalServiceError_ClassifiesContextErrors(t *testing.T) {
	timeout := NewExternalServiceError("http", fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.Equal(t, CodeRequestTimeout, timeout.Code)

	canceled := NewExternalServiceError("http", context.Canceled)
	assert.Equal(t, CodeCanceled, canceled.Code)
	assert.False(t, canceled.IsRetryable())

	other := NewExternalServiceError("http", errors.New("connection refused"))
	assert.Equal(t, CodeExternalServiceError, other.Code)
	assert.Equal(t, "http", other.Context.Metadata["external_service"])
}

func TestClassifyKratosLogin(t *testing.T) {
	assert.Equal(t, KratosFailureInvalidCredentials, ClassifyKratosLoginID(ErrorValidationInvalidCredentials))
	assert.Equal(t, KratosFailureNotVerified, ClassifyKratosLoginID(ErrorValidationAddressNotVerified))
	assert.Equal(t, KratosFailureSystem, ClassifyKratosLoginID(ErrorSystemGeneric))
	assert.Equal(t, KratosFailureUnknown, ClassifyKratosLoginID(KratosID(4010001)))

	assert.Equal(t, KratosFailureInvalidCredentials,
		ClassifyKratosLoginText("The provided credentials are invalid, check for spelling mistakes in your password or username, email address, or phone number."))
	assert.Equal(t, KratosFailureNotVerified,
		ClassifyKratosLoginText("Account not active yet. Did you forget to verify your email address?"))
	assert.Equal(t, KratosFailureUnknown, ClassifyKratosLoginText("something else"))
}
