package authmodel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponse_Variants(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"status":200,"code":"success","message":"Successful Login","user":{"id":"u1","email":"a@b.com","name":"A"}}`))
	require.NoError(t, err)
	success, ok := resp.(SuccessResponse)
	require.True(t, ok)
	assert.Equal(t, User{ID: "u1", Email: "a@b.com", Name: "A"}, success.User)

	resp, err = DecodeResponse([]byte(`{"status":401,"code":"invalid_credentials","message":"Email or password is incorrect"}`))
	require.NoError(t, err)
	assert.Equal(t, ResponseForCode(CodeInvalidCredentials), resp)

	resp, err = DecodeResponse([]byte(`{"status":400,"code":"validation_error","message":"bad","fields":{"password":"too short"}}`))
	require.NoError(t, err)
	validation, ok := resp.(ValidationErrorResponse)
	require.True(t, ok)
	assert.Equal(t, FieldErrors{FieldPassword: "too short"}, validation.Fields)
}

func TestDecodeResponse_ValidationWithoutFieldsGetsEmptyMap(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"status":400,"code":"validation_error","message":"bad"}`))
	require.NoError(t, err)
	validation := resp.(ValidationErrorResponse)
	assert.NotNil(t, validation.Fields)
	assert.Empty(t, validation.Fields)
}

func TestDecodeResponse_RejectsNonConformingValues(t *testing.T) {
	cases := map[string]string{
		"plain text":      `boom`,
		"null":            `null`,
		"array":           `[1,2]`,
		"missing status":  `{"code":"internal_error","message":"x"}`,
		"missing code":    `{"status":500,"message":"x"}`,
		"missing message": `{"status":500,"code":"internal_error"}`,
		"status string":   `{"status":"500","code":"internal_error","message":"x"}`,
		"unknown code":    `{"status":418,"code":"teapot","message":"x"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(body))
			assert.ErrorIs(t, err, ErrNotAuthResponse)
		})
	}
}

func TestResponseJSONShape(t *testing.T) {
	data, err := json.Marshal(ResponseForCode(CodeValidationError))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":400,"code":"validation_error","message":"Email and password are required","fields":{"email":"Email is required."}}`, string(data))

	decoded, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, ResponseForCode(CodeValidationError), decoded)
}
