package paypal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	nvperrors "github.com/kevin07696/paypal-nvp/pkg/errors"
)

// Shipping address limits, in characters
const (
	maxShipToNameLen    = 32
	maxShipToStreetLen  = 200
	maxShipToStreet1Len = 100
	maxShipToCityLen    = 40
	maxShipToZipLen     = 20
	shipToCountryLen    = 2
	maxShipToPhoneLen   = 20
)

// ShippingAddress is a ship-to address for an order
type ShippingAddress struct {
	Name        string
	Street      string // Streets over 100 characters are split into SHIPTOSTREET and SHIPTOSTREET2
	City        string
	State       string // State or province abbreviation
	Zip         string
	CountryCode string // Two character country code (e.g. US)
	Phone       string // Optional
}

type namedValue struct {
	name  string
	value string
}

// fields validates the address and returns its wire fields in order.
// countryField differs per API: shiptocountry (classic) or shiptocountrycode (express).
func (a ShippingAddress) fields(countryField string) ([]namedValue, error) {
	if utf8.RuneCountInString(a.Name) > maxShipToNameLen {
		return nil, nvperrors.NewValidationError("shiptoname",
			fmt.Sprintf("shipping address name cannot exceed %d characters", maxShipToNameLen))
	}
	if utf8.RuneCountInString(a.Street) > maxShipToStreetLen {
		return nil, nvperrors.NewValidationError("shiptostreet",
			fmt.Sprintf("shipping street address cannot exceed %d characters", maxShipToStreetLen))
	}
	street, street2, err := splitStreet(a.Street)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(a.City) > maxShipToCityLen {
		return nil, nvperrors.NewValidationError("shiptocity",
			fmt.Sprintf("shipping address city cannot exceed %d characters", maxShipToCityLen))
	}
	if utf8.RuneCountInString(a.Zip) > maxShipToZipLen {
		return nil, nvperrors.NewValidationError("shiptozip",
			fmt.Sprintf("shipping address postal code/ZIP cannot exceed %d characters", maxShipToZipLen))
	}
	if utf8.RuneCountInString(a.CountryCode) != shipToCountryLen {
		return nil, nvperrors.NewValidationError(countryField,
			"shipping address country must be a 2 character code")
	}
	if utf8.RuneCountInString(a.Phone) > maxShipToPhoneLen {
		return nil, nvperrors.NewValidationError("shiptophonenum",
			fmt.Sprintf("shipping address phone number cannot exceed %d characters", maxShipToPhoneLen))
	}

	out := []namedValue{
		{"shiptoname", a.Name},
		{"shiptostreet", street},
	}
	if street2 != "" {
		out = append(out, namedValue{"shiptostreet2", street2})
	}
	out = append(out,
		namedValue{"shiptocity", a.City},
		namedValue{"shiptostate", a.State},
		namedValue{"shiptozip", a.Zip},
		namedValue{countryField, a.CountryCode},
	)
	if a.Phone != "" {
		out = append(out, namedValue{"shiptophonenum", a.Phone})
	}
	return out, nil
}

// splitStreet breaks a street longer than 100 characters on word boundaries.
// The first part holds as many whole words as fit in 100 characters, the
// second part holds the rest joined by single spaces.
func splitStreet(street string) (string, string, error) {
	if utf8.RuneCountInString(street) <= maxShipToStreet1Len {
		return street, "", nil
	}

	words := strings.Fields(street)
	primary := ""
	used := 0
	for _, word := range words {
		candidate := word
		if primary != "" {
			candidate = primary + " " + word
		}
		if utf8.RuneCountInString(candidate) > maxShipToStreet1Len {
			break
		}
		primary = candidate
		used++
	}

	if used == 0 {
		return "", "", nvperrors.NewValidationError("shiptostreet",
			fmt.Sprintf("shipping street address contains a word longer than %d characters", maxShipToStreet1Len))
	}

	return primary, strings.Join(words[used:], " "), nil
}
