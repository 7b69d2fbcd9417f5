package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "paypal-nvp",
		Short:         "Send PayPal NVP requests from the command line",
		Long:          "Send Express Checkout and classic transaction requests to the PayPal NVP gateway.\nConfiguration and credentials are read from the environment (see PAYPAL_* variables).",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Print the response as JSON")

	rootCmd.AddCommand(setExpressCheckoutCmd())
	rootCmd.AddCommand(getExpressCheckoutDetailsCmd())
	rootCmd.AddCommand(doExpressCheckoutPaymentCmd())
	rootCmd.AddCommand(authorizeCmd())
	rootCmd.AddCommand(captureCmd())
	rootCmd.AddCommand(reauthorizeCmd())
	rootCmd.AddCommand(refundCmd())
	rootCmd.AddCommand(voidCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
