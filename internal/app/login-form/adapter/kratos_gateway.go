package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	ory "github.com/ory/kratos-client-go"

	"tsu-login/internal/model/authmodel"
	"tsu-login/internal/pkg/log"
	"tsu-login/internal/pkg/xerrors"
)

const kratosServiceName = "kratos"

// KratosGateway 通过 Kratos Public API 的 native 登录流程认证
type KratosGateway struct {
	publicClient *ory.APIClient
	logger       log.Logger
}

// kratosErrorPayload Kratos 错误响应中用于归类的部分：
// 表单流程错误在 ui.messages，通用错误在 error
type kratosErrorPayload struct {
	UI struct {
		Messages []struct {
			ID   int64  `json:"id"`
			Text string `json:"text"`
			Type string `json:"type"`
		} `json:"messages"`
	} `json:"ui"`
	Error *struct {
		ID      string `json:"id"`
		Code    int    `json:"code"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error,omitempty"`
}

// NewKratosGateway 创建 KratosGateway，timeout <= 0 时使用 10s
func NewKratosGateway(publicURL string, timeout time.Duration, logger log.Logger) *KratosGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	publicConfig := ory.NewConfiguration()
	publicConfig.Servers = []ory.ServerConfiguration{
		{URL: publicURL},
	}
	publicConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &KratosGateway{
		publicClient: ory.NewAPIClient(publicConfig),
		logger:       logger.With("component", "kratos_gateway"),
	}
}

// SignIn 实现 controller.SignInGateway
func (g *KratosGateway) SignIn(ctx context.Context, creds authmodel.Credentials) (authmodel.SuccessResponse, error) {
	// 1. 创建登录流程
	flow, resp, err := g.publicClient.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return authmodel.SuccessResponse{}, g.handleKratosError(ctx, "create_login_flow", err, resp)
	}

	g.logger.DebugContext(ctx, "创建登录流程成功", log.String("flow_id", flow.Id))

	// 2. 提交登录信息
	submitReq := ory.UpdateLoginFlowBody{
		UpdateLoginFlowWithPasswordMethod: &ory.UpdateLoginFlowWithPasswordMethod{
			Method:     "password",
			Identifier: creds.Email,
			Password:   creds.Password,
		},
	}

	loginResult, resp, err := g.publicClient.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(submitReq).
		Execute()
	if err != nil {
		return authmodel.SuccessResponse{}, g.handleKratosError(ctx, "submit_login", err, resp)
	}

	// 3. 处理登录结果
	identity := loginResult.Session.Identity
	if identity == nil {
		return authmodel.SuccessResponse{}, xerrors.NewKratosError("submit_login", errors.New("登录成功但会话中没有 identity")).
			WithService("kratos_gateway", "sign_in")
	}

	g.logger.InfoContext(ctx, "Kratos 登录成功", log.String("identity_id", identity.Id))

	template := authmodel.ResponseForCode(authmodel.CodeSuccess).(authmodel.SuccessResponse)
	return authmodel.NewSuccessResponse(template.Status, template.Message, userFromIdentity(identity, creds.Email)), nil
}

// handleKratosError 把 Kratos 错误归类为认证结果；无法归类时返回 AppError
func (g *KratosGateway) handleKratosError(ctx context.Context, operation string, err error, resp *http.Response) error {
	if resp == nil {
		g.logger.WarnContext(ctx, "Kratos 请求失败", log.String("operation", operation), log.Any("error", err))
		return xerrors.NewExternalServiceError(kratosServiceName, err).
			WithService("kratos_gateway", operation)
	}

	var body []byte
	if genericErr, ok := err.(interface{ Body() []byte }); ok {
		body = genericErr.Body()
	}

	code, ok := classifyKratosFailure(resp.StatusCode, body)
	if !ok {
		g.logger.WarnContext(ctx, "无法归类的 Kratos 错误",
			log.String("operation", operation),
			log.Int("status_code", resp.StatusCode),
		)
		appErr := xerrors.NewKratosAPIError(operation, resp.StatusCode).
			WithService("kratos_gateway", operation)
		appErr.Err = err
		return appErr
	}

	g.logger.InfoContext(ctx, "Kratos 拒绝登录",
		log.String("operation", operation),
		log.Int("status_code", resp.StatusCode),
		log.String("code", string(code)),
	)
	return authmodel.Reject(authmodel.ResponseForCode(code).(authmodel.ErrorResponse))
}

// classifyKratosFailure 先按 UI 消息 ID，再按消息文本，最后按 HTTP 状态码归类
func classifyKratosFailure(status int, body []byte) (authmodel.Code, bool) {
	var payload kratosErrorPayload
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		for _, msg := range payload.UI.Messages {
			if code, ok := codeForFailure(xerrors.ClassifyKratosLoginID(xerrors.KratosID(msg.ID))); ok {
				return code, true
			}
		}
		for _, msg := range payload.UI.Messages {
			if code, ok := codeForFailure(xerrors.ClassifyKratosLoginText(msg.Text)); ok {
				return code, true
			}
		}
		if payload.Error != nil {
			text := payload.Error.Message + " " + payload.Error.Reason
			if code, ok := codeForFailure(xerrors.ClassifyKratosLoginText(text)); ok {
				return code, true
			}
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return authmodel.CodeInvalidCredentials, true
	case status == http.StatusForbidden:
		return authmodel.CodeEmailNotVerified, true
	case status == http.StatusTooManyRequests:
		return authmodel.CodeUnknownError, true
	case status == http.StatusServiceUnavailable:
		return authmodel.CodeServiceUnavailable, true
	case status >= http.StatusInternalServerError:
		return authmodel.CodeInternalError, true
	}
	return "", false
}

func codeForFailure(f xerrors.KratosLoginFailure) (authmodel.Code, bool) {
	switch f {
	case xerrors.KratosFailureInvalidCredentials:
		return authmodel.CodeInvalidCredentials, true
	case xerrors.KratosFailureNotVerified:
		return authmodel.CodeEmailNotVerified, true
	case xerrors.KratosFailureSystem:
		return authmodel.CodeInternalError, true
	default:
		return "", false
	}
}

// userFromIdentity 从 identity traits 中取邮箱与名称，traits 缺失时回退到登录邮箱
func userFromIdentity(identity *ory.Identity, fallbackEmail string) authmodel.User {
	user := authmodel.User{ID: identity.Id, Email: fallbackEmail}

	traits, ok := identity.Traits.(map[string]interface{})
	if !ok {
		return user
	}
	if email, ok := traits["email"].(string); ok && email != "" {
		user.Email = email
	}

	switch name := traits["name"].(type) {
	case string:
		user.Name = name
	case map[string]interface{}:
		first, _ := name["first"].(string)
		last, _ := name["last"].(string)
		user.Name = strings.TrimSpace(first + " " + last)
	}
	if user.Name == "" {
		if username, ok := traits["username"].(string); ok {
			user.Name = username
		}
	}
	return user
}
