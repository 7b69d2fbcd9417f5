package paypal

import "strings"

// FieldFamily describes a group of indexed wire fields sharing a prefix, e.g.
// paymentrequest_<n>_amt or l_paymentrequest_<n>_name<m>.
//
// A name matches when it is Prefix, then (if PaymentIndexed) a payment index
// and "_", then one of Fields, then (if ItemIndexed) an item index, with
// nothing left over.
type FieldFamily struct {
	Prefix         string
	PaymentIndexed bool
	Fields         []string
	ItemIndexed    bool
}

// Arity returns how many numeric indexes a name in this family carries
func (f FieldFamily) Arity() int {
	n := 0
	if f.PaymentIndexed {
		n++
	}
	if f.ItemIndexed {
		n++
	}
	return n
}

// Match reports whether the lowercase name belongs to the family
func (f FieldFamily) Match(name string) bool {
	rest, ok := strings.CutPrefix(name, f.Prefix)
	if !ok {
		return false
	}

	if f.PaymentIndexed {
		digits := leadingDigits(rest)
		if digits == 0 {
			return false
		}
		rest, ok = strings.CutPrefix(rest[digits:], "_")
		if !ok {
			return false
		}
	}

	if f.ItemIndexed {
		digits := trailingDigits(rest)
		if digits == 0 {
			return false
		}
		rest = rest[:len(rest)-digits]
	}

	for _, field := range f.Fields {
		if rest == field {
			return true
		}
	}
	return false
}

// Registry is the set of field names one PayPal API accepts
type Registry struct {
	name     string
	fields   map[string]struct{}
	families []FieldFamily
}

// NewRegistry builds a registry from a whitelist and indexed families
func NewRegistry(name string, fields []string, families ...FieldFamily) *Registry {
	r := &Registry{
		name:     name,
		fields:   make(map[string]struct{}, len(fields)),
		families: families,
	}
	for _, f := range fields {
		r.fields[strings.ToLower(f)] = struct{}{}
	}
	return r
}

// Name identifies the API the registry describes
func (r *Registry) Name() string {
	return r.name
}

// Families returns the indexed field families of the registry
func (r *Registry) Families() []FieldFamily {
	return r.families
}

// IsRecognized reports whether name is a whitelisted field or matches an indexed family.
// Matching is case-insensitive.
func (r *Registry) IsRecognized(name string) bool {
	name = strings.ToLower(name)
	if _, ok := r.fields[name]; ok {
		return true
	}
	for _, family := range r.families {
		if family.Match(name) {
			return true
		}
	}
	return false
}

func leadingDigits(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func trailingDigits(s string) int {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return len(s) - i
}

var classicFields = []string{
	"method", "authorizationid", "note", "msgsubid", "transactionid",
	"amt", "transactionentity", "currencycode", "itemamt", "shippingamt", "handlingamt", "taxamt",
	"insuranceamt", "shipdiscamt", "desc", "custom", "ipaddress", "shiptoname", "shiptostreet", "shiptostreet2",
	"shiptocity", "shiptostate", "shiptozip", "shiptocountry", "shiptophonenum", "completetype", "invnum",
	"softdescriptor", "storeid", "terminalid", "payerid", "invoiceid", "refundtype", "retryuntil", "refundsource",
	"merchantstoredetails", "refundadvice", "refunditemdetails",
}

var expressCheckoutFields = []string{
	"method", "maxamt", "returnurl",
	"cancelurl", "callback", "callbacktimeout", "reqconfirmshipping",
	"noshipping", "allownote", "addroverride", "callbackversion",
	"localecode", "pagestyle", "hdrimg", "payflowcolor", "cartbordercolor",
	"logoimg", "email", "solutiontype", "landingpage", "channeltype", "giropaysuccessurl",
	"giropaycancelurl", "banktxnpendingurl", "brandname", "customerservicenumber", "giftmessageenable",
	"giftreceiptenable", "giftwrapenable", "giftwrapname", "giftwrapamount", "buyeremailoptinenable",
	"surveyenable", "surveyquestion", "payerid", "returnfmdetails", "giftmessage",
	"buyermarketingemail", "surveychoiceselected", "buttonsource", "insuranceoptionselected",
	"shippingoptionisdefault", "shippingoptionamount", "shippingoptionname", "currencycode",
	"offerinsuranceoption", "no_shipping_option_details", "token",
}

// Express Checkout indexed field families
var (
	PaymentRequestOrderFamily = FieldFamily{
		Prefix:         "paymentrequest_",
		PaymentIndexed: true,
		Fields: []string{
			"amt", "currencycode", "itemamt", "shippingamt", "insuranceamt", "shipdiscamt",
			"insuranceoptionoffered", "handlingamt", "taxamt", "desc", "custom", "invnum", "notifyurl",
			"multishipping", "notetext", "softdescriptor", "transactionid", "allowedpaymentmethod",
			"paymentaction", "paymentrequestid", "paymentreason",
		},
	}

	PaymentRequestShipToFamily = FieldFamily{
		Prefix:         "paymentrequest_",
		PaymentIndexed: true,
		Fields: []string{
			"shiptoname", "shiptostreet", "shiptostreet2", "shiptocity", "shiptostate", "shiptozip",
			"shiptocountrycode", "shiptophonenum",
		},
	}

	PaymentRequestSellerFamily = FieldFamily{
		Prefix:         "paymentrequest_",
		PaymentIndexed: true,
		Fields:         []string{"sellerid", "sellerusername", "sellerregistrationdate"},
	}

	LineItemFamily = FieldFamily{
		Prefix:         "l_paymentrequest_",
		PaymentIndexed: true,
		Fields: []string{
			"name", "desc", "amt", "number", "qty", "taxamt", "itemweightvalue", "itemweightunit",
			"itemlengthvalue", "itemlengthunit", "itemwidthvalue", "itemwidthunit", "itemheightvalue",
			"itemheightunit", "itemurl", "itemcategory",
		},
		ItemIndexed: true,
	}

	ShippingOptionFamily = FieldFamily{
		Prefix: "l_",
		Fields: []string{
			"shippingoptionamount", "shippingoptionisdefault", "shippingoptionlabel", "shippingoptionname",
		},
		ItemIndexed: true,
	}

	ListFamily = FieldFamily{
		Prefix:      "l_",
		Fields:      []string{"insuranceamount", "surveychoice", "taxamt"},
		ItemIndexed: true,
	}
)

// ClassicRegistry returns the registry for the classic transaction API
// (DoAuthorization, DoCapture, DoReauthorization, RefundTransaction, DoVoid)
func ClassicRegistry() *Registry {
	return NewRegistry("Classic", classicFields)
}

// ExpressCheckoutRegistry returns the registry for the Express Checkout API
func ExpressCheckoutRegistry() *Registry {
	return NewRegistry("ExpressCheckout", expressCheckoutFields,
		PaymentRequestOrderFamily,
		PaymentRequestShipToFamily,
		PaymentRequestSellerFamily,
		LineItemFamily,
		ShippingOptionFamily,
		ListFamily,
	)
}
