package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"tsu-login/internal/pkg/xerrors"
)

// 登录网关类型
const (
	GatewayMock   = "mock"
	GatewayHTTP   = "http"
	GatewayKratos = "kratos"
)

// LoginConfig 登录表单运行配置
// 加载优先级：命令行参数 > 环境变量 > 默认值
type LoginConfig struct {
	Environment string
	LogLevel    string
	LogFile     string

	Gateway         string
	Endpoint        string // http 网关的认证接口地址
	KratosPublicURL string
	Timeout         time.Duration
	MockDelay       time.Duration

	MetricsNamespace string
}

// GetEnvOrDefault 获取环境变量，如果不存在则返回默认值
// 这是配置加载的核心函数：环境变量 > 默认值
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDurationOrDefault 读取时长类型的环境变量（如 "5s"）
func GetDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("环境变量 %s 不是有效的时长: %w", key, err)
	}
	return d, nil
}

// LoadLoginConfig 从环境变量加载配置
func LoadLoginConfig() (*LoginConfig, error) {
	timeout, err := GetDurationOrDefault("LOGIN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	mockDelay, err := GetDurationOrDefault("LOGIN_MOCK_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	return &LoginConfig{
		Environment:      GetEnvOrDefault("APP_ENV", "development"),
		LogLevel:         GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:          GetEnvOrDefault("LOG_FILE", "login-form.log"),
		Gateway:          GetEnvOrDefault("LOGIN_GATEWAY", GatewayMock),
		Endpoint:         GetEnvOrDefault("LOGIN_ENDPOINT", "http://localhost:8090/auth/login"),
		KratosPublicURL:  GetEnvOrDefault("KRATOS_PUBLIC_URL", "http://localhost:4433"),
		Timeout:          timeout,
		MockDelay:        mockDelay,
		MetricsNamespace: GetEnvOrDefault("METRICS_NAMESPACE", "tsu"),
	}, nil
}

// Validate 检查配置是否可用
func (c *LoginConfig) Validate() error {
	switch c.Gateway {
	case GatewayMock:
	case GatewayHTTP:
		if strings.TrimSpace(c.Endpoint) == "" {
			return xerrors.NewConfigError("LOGIN_ENDPOINT", "http 网关需要认证接口地址")
		}
	case GatewayKratos:
		if strings.TrimSpace(c.KratosPublicURL) == "" {
			return xerrors.NewConfigError("KRATOS_PUBLIC_URL", "kratos 网关需要 Public API 地址")
		}
	default:
		return xerrors.NewConfigError("LOGIN_GATEWAY", fmt.Sprintf("未知的网关类型 %q", c.Gateway))
	}

	if c.Timeout <= 0 {
		return xerrors.NewConfigError("LOGIN_TIMEOUT", "超时时间必须大于 0")
	}
	if c.MockDelay < 0 {
		return xerrors.NewConfigError("LOGIN_MOCK_DELAY", "延迟不能为负数")
	}
	return nil
}

// AsMap 转为键值形式，用于日志输出
func (c *LoginConfig) AsMap() map[string]any {
	return map[string]any{
		"environment":       c.Environment,
		"log_level":         c.LogLevel,
		"log_file":          c.LogFile,
		"gateway":           c.Gateway,
		"endpoint":          c.Endpoint,
		"kratos_public_url": c.KratosPublicURL,
		"timeout":           c.Timeout.String(),
		"mock_delay":        c.MockDelay.String(),
		"metrics_namespace": c.MetricsNamespace,
	}
}

// SanitizeConfigForLog 清理配置中的敏感信息，用于日志输出
func SanitizeConfigForLog(config map[string]any) map[string]any {
	sanitized := make(map[string]any)
	for k, v := range config {
		// 隐藏敏感字段
		if isSensitiveKey(k) {
			sanitized[k] = "***REDACTED***"
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// isSensitiveKey 判断是否是敏感配置项
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	sensitiveKeywords := []string{
		"password", "secret", "token", "key", "credential", "private",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}
