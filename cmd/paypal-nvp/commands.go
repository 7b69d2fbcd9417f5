package main

import (
	"context"
	"fmt"

	"github.com/kevin07696/paypal-nvp/internal/adapters/paypal"
	"github.com/spf13/cobra"
)

func setExpressCheckoutCmd() *cobra.Command {
	var (
		amount, maxAmount, currency, desc string
		returnURL, cancelURL, callbackURL string
	)

	cmd := &cobra.Command{
		Use:   "set-ec",
		Short: "Start an Express Checkout (SetExpressCheckout) and print the buyer login URL",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return nil, err
			}
			maxAmt, err := parseAmount("max-amount", maxAmount)
			if err != nil {
				return nil, err
			}

			client := a.expressCheckout()
			req := client.NewRequest()
			fields := map[string]string{"currencycode": currency}
			if desc != "" {
				fields["desc"] = desc
			}
			if err := req.SetPaymentFields(fields); err != nil {
				return nil, err
			}

			resp, err := req.SetExpressCheckout(ctx, paypal.SetExpressCheckoutParams{
				Amount:      amt,
				ReturnURL:   returnURL,
				CancelURL:   cancelURL,
				CallbackURL: callbackURL,
				MaxAmount:   maxAmt,
			})
			if err != nil {
				return nil, err
			}

			if resp.IsSuccess() && resp.Token() != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Redirect buyer to: %s\n\n", client.LoginURL(resp.Token()))
			}
			return resp, nil
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Order total (PAYMENTREQUEST_0_AMT)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	cmd.Flags().StringVar(&desc, "desc", "", "Order description")
	cmd.Flags().StringVar(&returnURL, "return-url", "", "URL PayPal returns the buyer to")
	cmd.Flags().StringVar(&cancelURL, "cancel-url", "", "URL PayPal sends the buyer to on cancel")
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "Shipping options callback URL")
	cmd.Flags().StringVar(&maxAmount, "max-amount", "", "Maximum total including callback shipping (with --callback-url)")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("return-url")
	cmd.MarkFlagRequired("cancel-url")

	return cmd
}

func getExpressCheckoutDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-ecd [token]",
		Short: "Fetch buyer details for a checkout token (GetExpressCheckoutDetails)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			return a.expressCheckout().NewRequest().GetExpressCheckoutDetails(ctx, args[0])
		}),
	}
}

func doExpressCheckoutPaymentCmd() *cobra.Command {
	var amount, currency, action string

	cmd := &cobra.Command{
		Use:   "do-ecp [token] [payer-id]",
		Short: "Complete a checkout (DoExpressCheckoutPayment)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return nil, err
			}

			req := a.expressCheckout().NewRequest()
			if err := req.SetPaymentFields(map[string]string{
				"amt":           amt,
				"currencycode":  currency,
				"paymentaction": action,
			}); err != nil {
				return nil, err
			}
			return req.DoExpressCheckoutPayment(ctx, args[0], args[1])
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Order total (PAYMENTREQUEST_0_AMT)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	cmd.Flags().StringVar(&action, "action", "Sale", "Payment action (Sale, Authorization, Order)")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func authorizeCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "authorize [transaction-id]",
		Short: "Authorize an order transaction (DoAuthorization)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return nil, err
			}
			return a.classic().NewRequest().Authorize(ctx, args[0], amt)
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to authorize")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func captureCmd() *cobra.Command {
	var amount, completeType string
	var idempotent bool

	cmd := &cobra.Command{
		Use:   "capture [authorization-id]",
		Short: "Capture an authorization (DoCapture)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return nil, err
			}

			req := a.classic().NewRequest()
			if idempotent {
				id, err := req.SetMessageSubmissionID()
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "MSGSUBID: %s\n", id)
			}
			return req.Capture(ctx, args[0], amt, completeType)
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to capture")
	cmd.Flags().StringVar(&completeType, "complete-type", paypal.CompleteTypeComplete, "Complete or NotComplete")
	cmd.Flags().BoolVar(&idempotent, "msgsubid", true, "Send a message submission ID")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func reauthorizeCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "reauthorize [authorization-id]",
		Short: "Reauthorize an authorization (DoReauthorization)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return nil, err
			}
			return a.classic().NewRequest().Reauthorize(ctx, args[0], amt)
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to reauthorize")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func refundCmd() *cobra.Command {
	var amount, refundType string

	cmd := &cobra.Command{
		Use:   "refund [transaction-id]",
		Short: "Refund a captured transaction (RefundTransaction)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return nil, err
			}
			if refundType == paypal.RefundTypePartial && amt == "" {
				return nil, fmt.Errorf("--amount is required for a partial refund")
			}

			req := a.classic().NewRequest()
			if _, err := req.SetMessageSubmissionID(); err != nil {
				return nil, err
			}
			return req.Refund(ctx, args[0], refundType, amt)
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to refund (Partial only)")
	cmd.Flags().StringVar(&refundType, "type", paypal.RefundTypeFull, "Full, Partial, ExternalDispute or Other")

	return cmd
}

func voidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "void [authorization-id]",
		Short: "Void an authorization (DoVoid)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*paypal.Response, error) {
			return a.classic().NewRequest().Void(ctx, args[0])
		}),
	}
}
