package paypal

import (
	"maps"
	"net/url"
	"strconv"
	"strings"
)

// CallbackRequest is the decoded form PayPal posts to the merchant's callback
// URL while the buyer picks a shipping address. It carries no error clusters.
type CallbackRequest struct {
	fields map[string]string
}

// ParseCallbackRequest decodes a posted callback form. Keys are lower-cased;
// for repeated keys the last value wins.
func ParseCallbackRequest(form url.Values) *CallbackRequest {
	c := &CallbackRequest{fields: make(map[string]string, len(form))}
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		c.fields[strings.ToLower(key)] = values[len(values)-1]
	}
	return c
}

// ParseCallbackMap decodes an already flattened callback request
func ParseCallbackMap(m map[string]string) *CallbackRequest {
	c := &CallbackRequest{fields: make(map[string]string, len(m))}
	for key, value := range m {
		c.fields[strings.ToLower(key)] = value
	}
	return c
}

// Get returns a field, or "" when absent
func (c *CallbackRequest) Get(key string) string {
	return c.fields[strings.ToLower(key)]
}

// Lookup returns a field and whether it was present
func (c *CallbackRequest) Lookup(key string) (string, bool) {
	v, ok := c.fields[strings.ToLower(key)]
	return v, ok
}

// Fields returns a copy of every field
func (c *CallbackRequest) Fields() map[string]string {
	return maps.Clone(c.fields)
}

func (c *CallbackRequest) Method() string       { return c.fields["method"] }
func (c *CallbackRequest) Token() string        { return c.fields["token"] }
func (c *CallbackRequest) CurrencyCode() string { return c.fields["currencycode"] }

// ShippingAddress returns the address the buyer selected on PayPal
func (c *CallbackRequest) ShippingAddress() ShippingAddress {
	street := c.fields["shiptostreet"]
	if street2 := c.fields["shiptostreet2"]; street2 != "" {
		street = strings.TrimSpace(street + " " + street2)
	}
	return ShippingAddress{
		Name:        c.fields["shiptoname"],
		Street:      street,
		City:        c.fields["shiptocity"],
		State:       c.fields["shiptostate"],
		Zip:         c.fields["shiptozip"],
		CountryCode: c.fields["shiptocountry"],
	}
}

// LineItems returns the order lines sent with the callback (L_NAME<n>, L_AMT<n>, ...),
// stopping at the first index without a name or number.
func (c *CallbackRequest) LineItems() []LineItem {
	var items []LineItem
	for i := 0; ; i++ {
		index := strconv.Itoa(i)
		name, hasName := c.fields["l_name"+index]
		number, hasNumber := c.fields["l_number"+index]
		if !hasName && !hasNumber {
			return items
		}
		qty, _ := strconv.Atoi(c.fields["l_qty"+index])
		items = append(items, LineItem{
			Number:      number,
			Name:        name,
			Description: c.fields["l_desc"+index],
			Quantity:    qty,
			Amount:      c.fields["l_amt"+index],
			TaxAmount:   c.fields["l_taxamt"+index],
			ItemURL:     c.fields["l_itemurl"+index],
			Category:    c.fields["l_itemcategory"+index],
		})
	}
}
