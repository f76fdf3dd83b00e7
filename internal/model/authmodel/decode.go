package authmodel

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotAuthResponse 数据不具备认证响应的结构（status/code/message）
var ErrNotAuthResponse = errors.New("not an auth response")

// DecodeResponse 按结构识别认证响应：必须是包含 status、code、message 的 JSON 对象，
// 且 code 为已知结果码。变体由 code 决定
func DecodeResponse(data []byte) (Response, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: 不是 JSON 对象", ErrNotAuthResponse)
	}

	var head Envelope
	for key, dst := range map[string]any{
		"status":  &head.Status,
		"code":    &head.Code,
		"message": &head.Message,
	} {
		value, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%w: 缺少 %s 字段", ErrNotAuthResponse, key)
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return nil, fmt.Errorf("%w: %s 字段类型错误: %v", ErrNotAuthResponse, key, err)
		}
	}

	if !head.Code.Valid() {
		return nil, fmt.Errorf("%w: 未知结果码 %q", ErrNotAuthResponse, head.Code)
	}

	switch head.Code {
	case CodeSuccess:
		resp := SuccessResponse{Envelope: head}
		if value, ok := raw["user"]; ok {
			if err := json.Unmarshal(value, &resp.User); err != nil {
				return nil, fmt.Errorf("%w: user 字段类型错误: %v", ErrNotAuthResponse, err)
			}
		}
		return resp, nil
	case CodeValidationError:
		fields := FieldErrors{}
		if value, ok := raw["fields"]; ok {
			if err := json.Unmarshal(value, &fields); err != nil {
				return nil, fmt.Errorf("%w: fields 字段类型错误: %v", ErrNotAuthResponse, err)
			}
		}
		return NewValidationErrorResponse(head.Status, head.Message, fields), nil
	default:
		return OtherErrorResponse{Envelope: head}, nil
	}
}
