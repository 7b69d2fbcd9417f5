package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/paypal-nvp/internal/adapters/paypal"
	"github.com/kevin07696/paypal-nvp/internal/adapters/secrets"
	"github.com/kevin07696/paypal-nvp/internal/adapters/transport"
	"github.com/kevin07696/paypal-nvp/internal/config"
	"github.com/kevin07696/paypal-nvp/internal/handlers/callback"
	"github.com/kevin07696/paypal-nvp/pkg/logging"
	"github.com/kevin07696/paypal-nvp/pkg/middleware"
	"github.com/kevin07696/paypal-nvp/pkg/observability"
	"github.com/kevin07696/paypal-nvp/pkg/shutdown"
)

const callbackPath = "/paypal/callback"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logger.Level,
		Development: cfg.Logger.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting PayPal callback server",
		zap.Bool("sandbox", cfg.Gateway.Sandbox),
		zap.String("secrets_backend", cfg.Secrets.Backend),
	)

	shutdownManager := shutdown.NewManager(logger, 15*time.Second)

	// Diagnostic sink for transport errors and raw responses
	diagnostics, closeDiagnostics, err := logging.NewDiagnosticSink(cfg.Gateway.LogFile)
	if err != nil {
		logger.Fatal("Failed to open diagnostic log", zap.Error(err))
	}
	shutdownManager.RegisterCloser("diagnostic_log", closeDiagnostics)

	ctx := context.Background()
	credentials, err := secrets.LoadCredentials(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load PayPal credentials", zap.Error(err))
	}

	transportCfg := transport.DefaultConfig()
	transportCfg.Timeout = cfg.Gateway.RequestTimeout()
	transportCfg.VerifyPeer = cfg.Gateway.VerifyPeer
	transportCfg.CAFile = cfg.Gateway.CAFile

	nvpTransport, err := transport.New(transportCfg, logger, diagnostics)
	if err != nil {
		logger.Fatal("Failed to create NVP transport", zap.Error(err))
	}

	client := paypal.NewExpressCheckoutClient(paypal.Config{
		Credentials: credentials,
		Sandbox:     cfg.Gateway.Sandbox,
		Endpoint:    cfg.Gateway.Endpoint,
	}, nvpTransport, logger)

	options, err := callback.ParseShippingOptions(cfg.Server.ShippingOptions)
	if err != nil {
		logger.Fatal("Invalid CALLBACK_SHIPPING_OPTIONS", zap.Error(err))
	}
	provider := &callback.FlatRateProvider{
		Options:   options,
		Countries: callback.ParseCountries(cfg.Server.ShipCountries),
	}
	logger.Info("Shipping options configured",
		zap.Int("options", len(provider.Options)),
		zap.Strings("countries", provider.Countries),
	)

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst, logger)
	shutdownManager.RegisterNoErr("rate_limiter", rateLimiter.Shutdown)

	healthChecker := observability.NewHealthChecker()
	healthChecker.Register("paypal_gateway", nvpTransport.Healthy)

	mux := http.NewServeMux()
	mux.Handle(callbackPath, rateLimiter.Middleware(callback.NewCallbackHandler(client, provider, logger)))

	httpServer := &http.Server{
		Addr:              cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	metricsServer := observability.StartMetricsServer(strconv.Itoa(cfg.Server.MetricsPort), healthChecker, logger)
	shutdownManager.RegisterHTTPServer("metrics_server", metricsServer)

	go func() {
		logger.Info("Callback server listening",
			zap.String("address", httpServer.Addr),
			zap.String("path", callbackPath),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()
	// Registered last so it stops accepting callbacks first
	shutdownManager.RegisterHTTPServer("callback_server", httpServer)

	if err := shutdownManager.WaitForShutdown(ctx); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
	}
	logger.Info("Servers stopped")
}
