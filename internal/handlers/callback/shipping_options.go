package callback

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kevin07696/paypal-nvp/internal/adapters/paypal"
	"github.com/shopspring/decimal"
)

// FlatRateProvider offers a fixed list of shipping options to the allowed countries
type FlatRateProvider struct {
	Options   []paypal.ShippingOption
	Countries []string // Two letter codes; empty allows every country
}

// ShippingOptions returns the configured options, or none when the buyer's
// country is not served
func (p *FlatRateProvider) ShippingOptions(ctx context.Context, req *paypal.CallbackRequest) ([]paypal.ShippingOption, error) {
	if len(p.Countries) > 0 {
		country := strings.ToUpper(req.ShippingAddress().CountryCode)
		if !slices.Contains(p.Countries, country) {
			return nil, nil
		}
	}
	return slices.Clone(p.Options), nil
}

// ParseShippingOptions parses "Name:Amount[:Label]" entries separated by
// commas, e.g. "Ground:5.00,Express:15.00:Next day". The first entry is the default.
func ParseShippingOptions(s string) ([]paypal.ShippingOption, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var options []paypal.ShippingOption
	for i, entry := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
			return nil, fmt.Errorf("invalid shipping option %q: want Name:Amount[:Label]", entry)
		}

		amount, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid amount for shipping option %s: %w", parts[0], err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("negative amount for shipping option %s", parts[0])
		}

		label := parts[0]
		if len(parts) == 3 && parts[2] != "" {
			label = parts[2]
		}

		options = append(options, paypal.ShippingOption{
			Name:      parts[0],
			Label:     label,
			Amount:    paypal.EncodeAmount(amount),
			IsDefault: i == 0,
		})
	}
	return options, nil
}

// ParseCountries parses a comma separated list of country codes
func ParseCountries(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	return out
}
