// File: cmd/login-form/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"tsu-login/internal/app/login-form/adapter"
	"tsu-login/internal/app/login-form/controller"
	"tsu-login/internal/app/login-form/store"
	"tsu-login/internal/app/login-form/view"
	"tsu-login/internal/pkg/config"
	"tsu-login/internal/pkg/ctxkey"
	"tsu-login/internal/pkg/log"
	"tsu-login/internal/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --- 1. 配置：环境变量打底，命令行参数覆盖 ---
	cfg, err := config.LoadLoginConfig()
	if err != nil {
		return err
	}

	var metricsAddr string
	flagSet := pflag.NewFlagSet("login-form", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Gateway, "gateway", cfg.Gateway, "sign-in gateway: mock, http or kratos")
	flagSet.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "authentication endpoint for the http gateway")
	flagSet.StringVar(&cfg.KratosPublicURL, "kratos-url", cfg.KratosPublicURL, "Kratos public API URL for the kratos gateway")
	flagSet.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "gateway request timeout")
	flagSet.DurationVar(&cfg.MockDelay, "mock-delay", cfg.MockDelay, "simulated latency of the mock gateway")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flagSet.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write log records to this file")
	flagSet.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (disabled when empty)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// --- 2. 日志：写文件，不能占用终端 ---
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	defer logFile.Close()

	log.InitWithWriter(logFile, log.ParseLevel(cfg.LogLevel), cfg.Environment)
	logger := log.GetLogger()
	logger.Info("登录表单启动", log.Any("config", config.SanitizeConfigForLog(cfg.AsMap())))

	// --- 3. 依赖注入 ---
	gateway := newGateway(cfg, logger)

	service := "login_form_" + cfg.Gateway
	metrics.SetServiceName(service)
	loginMetrics := metrics.DefaultLoginMetrics
	if cfg.MetricsNamespace != metrics.DefaultNamespace {
		loginMetrics = metrics.NewLoginMetrics(cfg.MetricsNamespace)
	}
	if metricsAddr != "" {
		go serveMetrics(metricsAddr, logger)
	}

	// Store 的生命周期与界面一致
	loginStore := store.New()
	defer loginStore.Close()
	states, unsubscribe := loginStore.Subscribe()
	defer unsubscribe()

	authController := controller.NewAuthController(loginStore, gateway,
		controller.WithLogger(logger),
		controller.WithMetrics(loginMetrics),
		controller.WithServiceName(service),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = ctxkey.WithValue(ctx, ctxkey.Gateway, cfg.Gateway)

	// --- 4. 运行界面 ---
	program := tea.NewProgram(view.NewModel(ctx, authController, states), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error("界面异常退出", err)
		return err
	}

	logger.Info("登录表单退出", log.String("final_state", string(authController.State().Kind())))
	return nil
}

func newGateway(cfg *config.LoginConfig, logger log.Logger) controller.SignInGateway {
	switch cfg.Gateway {
	case config.GatewayHTTP:
		return adapter.NewHTTPGateway(cfg.Endpoint, cfg.Timeout, logger)
	case config.GatewayKratos:
		return adapter.NewKratosGateway(cfg.KratosPublicURL, cfg.Timeout, logger)
	default:
		return adapter.NewMockGateway(adapter.WithDelay(cfg.MockDelay), adapter.WithMockLogger(logger))
	}
}

func serveMetrics(addr string, logger log.Logger) {
	exporter := metrics.NewExporter(nil)
	exporter.Server.ReadHeaderTimeout = 5 * time.Second

	logger.Info("指标服务启动", log.String("address", addr))
	if err := exporter.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("指标服务异常退出", err)
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: login-form [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Terminal login form backed by a mock, HTTP or Kratos sign-in gateway.\n")
	fmt.Fprintf(os.Stderr, "Flags override the LOGIN_* / LOG_* / KRATOS_PUBLIC_URL environment variables.\n\n")
	flagSet.PrintDefaults()
}
