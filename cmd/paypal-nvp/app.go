package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/kevin07696/paypal-nvp/internal/adapters/paypal"
	"github.com/kevin07696/paypal-nvp/internal/adapters/secrets"
	"github.com/kevin07696/paypal-nvp/internal/adapters/transport"
	"github.com/kevin07696/paypal-nvp/internal/config"
	"github.com/kevin07696/paypal-nvp/pkg/logging"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is what every subcommand needs to talk to the gateway
type app struct {
	logger    *zap.Logger
	gateway   paypal.Config
	transport *transport.HTTPSTransport
	closeFns  []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logger.Level,
		Development: cfg.Logger.Development,
	})
	if err != nil {
		return nil, err
	}

	diagnostics, closeDiagnostics, err := logging.NewDiagnosticSink(cfg.Gateway.LogFile)
	if err != nil {
		return nil, err
	}

	credentials, err := secrets.LoadCredentials(ctx, cfg, logger)
	if err != nil {
		closeDiagnostics()
		return nil, fmt.Errorf("failed to load PayPal credentials: %w", err)
	}

	transportCfg := transport.DefaultConfig()
	transportCfg.Timeout = cfg.Gateway.RequestTimeout()
	transportCfg.VerifyPeer = cfg.Gateway.VerifyPeer
	transportCfg.CAFile = cfg.Gateway.CAFile

	t, err := transport.New(transportCfg, logger, diagnostics)
	if err != nil {
		closeDiagnostics()
		return nil, err
	}

	return &app{
		logger: logger,
		gateway: paypal.Config{
			Credentials: credentials,
			Sandbox:     cfg.Gateway.Sandbox,
			Endpoint:    cfg.Gateway.Endpoint,
		},
		transport: t,
		closeFns:  []func() error{closeDiagnostics, func() error { logger.Sync(); return nil }},
	}, nil
}

func (a *app) expressCheckout() *paypal.ExpressCheckoutClient {
	return paypal.NewExpressCheckoutClient(a.gateway, a.transport, a.logger)
}

func (a *app) classic() *paypal.ClassicClient {
	return paypal.NewClassicClient(a.gateway, a.transport, a.logger)
}

func (a *app) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
}

// withApp builds the app for one command run and prints the response it returns
func withApp(run func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := run(ctx, cmd, a, args)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if err := printResponse(cmd.OutOrStdout(), resp, asJSON); err != nil {
			return err
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("PayPal returned ACK=%s", resp.Status)
		}
		return nil
	}
}

// parseAmount accepts any decimal and returns it in NVP form. Empty stays empty.
func parseAmount(flag, s string) (string, error) {
	if s == "" {
		return "", nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("invalid --%s %q: %w", flag, s, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("--%s cannot be negative", flag)
	}
	return paypal.EncodeAmount(d), nil
}

type responseOutput struct {
	Ack           string            `json:"ack"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Timestamp     string            `json:"timestamp,omitempty"`
	Errors        []paypal.Message  `json:"errors,omitempty"`
	Warnings      []paypal.Message  `json:"warnings,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
}

func printResponse(w io.Writer, resp *paypal.Response, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(responseOutput{
			Ack:           resp.Status,
			CorrelationID: resp.CorrelationID,
			Timestamp:     resp.Timestamp,
			Errors:        resp.SortedErrors(),
			Warnings:      resp.SortedWarnings(),
			Fields:        resp.Fields(),
		})
	}

	fmt.Fprintf(w, "ACK:            %s\n", resp.Status)
	if resp.CorrelationID != "" {
		fmt.Fprintf(w, "Correlation ID: %s\n", resp.CorrelationID)
	}
	printMessages(w, "Errors", resp.SortedErrors())
	printMessages(w, "Warnings", resp.SortedWarnings())

	fields := resp.Fields()
	if len(fields) > 0 {
		fmt.Fprintln(w, "\nFields:")
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			fmt.Fprintf(w, "  %-32s %s\n", key, fields[key])
		}
	}
	return nil
}

func printMessages(w io.Writer, title string, messages []paypal.Message) {
	if len(messages) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, m := range messages {
		fmt.Fprintf(w, "  [%s] %s", m.ErrorCode, m.ShortMessage)
		if m.LongMessage != "" && m.LongMessage != m.ShortMessage {
			fmt.Fprintf(w, " (%s)", m.LongMessage)
		}
		fmt.Fprintln(w)
	}
}
