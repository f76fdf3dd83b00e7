package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tsu-login/internal/model/authmodel"
	"tsu-login/internal/pkg/log"
	"tsu-login/internal/pkg/xerrors"
)

const httpServiceName = "auth_endpoint"

// 响应体上限
const maxResponseBytes = 1 << 20

// HTTPGateway 通过 JSON 接口登录。接口直接返回认证响应结构
type HTTPGateway struct {
	endpoint string
	client   *http.Client
	logger   log.Logger
}

// NewHTTPGateway 创建 HTTPGateway，timeout <= 0 时使用 10s
func NewHTTPGateway(endpoint string, timeout time.Duration, logger log.Logger) *HTTPGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &HTTPGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("component", "http_gateway"),
	}
}

type signInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// SignIn 实现 controller.SignInGateway
func (g *HTTPGateway) SignIn(ctx context.Context, creds authmodel.Credentials) (authmodel.SuccessResponse, error) {
	payload, err := json.Marshal(signInRequest{
		Email:      creds.Email,
		Password:   creds.Password,
		RememberMe: creds.RememberMe,
	})
	if err != nil {
		return authmodel.SuccessResponse{}, xerrors.NewWithError(xerrors.CodeInternalError, "序列化登录请求失败", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return authmodel.SuccessResponse{}, xerrors.NewExternalServiceError(httpServiceName, err).
			WithService("http_gateway", "sign_in")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WarnContext(ctx, "认证接口请求失败", log.Any("error", err))
		return authmodel.SuccessResponse{}, xerrors.NewExternalServiceError(httpServiceName, err).
			WithService("http_gateway", "sign_in").
			WithMetadata("endpoint", g.endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return authmodel.SuccessResponse{}, xerrors.NewExternalServiceError(httpServiceName, err).
			WithService("http_gateway", "sign_in").
			WithMetadata("status_code", resp.StatusCode)
	}

	decoded, err := authmodel.DecodeResponse(body)
	if err != nil {
		g.logger.WarnContext(ctx, "认证接口返回无法识别的响应",
			log.Int("status_code", resp.StatusCode),
			log.Int("body_size", len(body)),
		)
		return authmodel.SuccessResponse{}, xerrors.NewMalformedResponseError(httpServiceName, resp.StatusCode, err).
			WithService("http_gateway", "sign_in")
	}

	g.logger.DebugContext(ctx, "认证接口返回",
		log.Int("status_code", resp.StatusCode),
		log.String("code", string(decoded.Head().Code)),
	)

	return settle(decoded)
}

func (g *HTTPGateway) String() string {
	return fmt.Sprintf("http(%s)", g.endpoint)
}
