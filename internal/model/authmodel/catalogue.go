package authmodel

import "net/http"

// 每个结果码对应的标准响应模板
var catalogue = map[Code]Response{
	CodeSuccess: NewSuccessResponse(http.StatusOK, "Successful Login", User{
		ID:    "mocked_user_id",
		Name:  "Mock User",
		Email: "mock@example.com",
	}),
	CodeValidationError: NewValidationErrorResponse(http.StatusBadRequest, "Email and password are required", FieldErrors{
		FieldEmail: "Email is required.",
	}),
	CodeInvalidCredentials: OtherErrorResponse{Envelope{http.StatusUnauthorized, CodeInvalidCredentials, "Email or password is incorrect"}},
	CodeEmailNotVerified:   OtherErrorResponse{Envelope{http.StatusForbidden, CodeEmailNotVerified, "Email exists but not confirmed yet"}},
	CodeInternalError:      OtherErrorResponse{Envelope{http.StatusInternalServerError, CodeInternalError, "Unexpected server error"}},
	CodeServiceUnavailable: OtherErrorResponse{Envelope{http.StatusServiceUnavailable, CodeServiceUnavailable, "Auth service is temporarily unavailable"}},
	CodeUnknownError:       OtherErrorResponse{Envelope{http.StatusTooManyRequests, CodeUnknownError, "Too many login attempts in a short time"}},
}

// ResponseForCode 返回结果码对应的响应模板
// 未知结果码返回 unknown_error 模板。返回值中的映射是副本，调用方可随意修改
func ResponseForCode(code Code) Response {
	r, ok := catalogue[code]
	if !ok {
		r = catalogue[CodeUnknownError]
	}
	return copyResponse(r)
}

// ValidationTemplate 返回校验失败响应模板
func ValidationTemplate() ValidationErrorResponse {
	return ResponseForCode(CodeValidationError).(ValidationErrorResponse)
}

// RejectableResponses 网关可能给出的结果（排除本地校验失败）
func RejectableResponses() []Response {
	out := make([]Response, 0, len(allCodes)-1)
	for _, code := range allCodes {
		if code == CodeValidationError {
			continue
		}
		out = append(out, ResponseForCode(code))
	}
	return out
}

func copyResponse(r Response) Response {
	if v, ok := r.(ValidationErrorResponse); ok {
		v.Fields = v.Fields.Clone()
		return v
	}
	return r
}
