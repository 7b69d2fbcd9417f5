package paypal

import (
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ACK values
const (
	AckSuccess            = "Success"
	AckSuccessWithWarning = "SuccessWithWarning"
	AckFailure            = "Failure"
	AckFailureWithWarning = "FailureWithWarning"
)

const (
	severityError = "Error"

	connectionErrorMessage = "Error connecting to PayPal"
)

var messageKeyPattern = regexp.MustCompile(`^l_(errorcode|shortmessage|longmessage)(\d+)$`)

// Message is one error or warning reported by PayPal
type Message struct {
	ErrorCode    string
	ShortMessage string
	LongMessage  string
}

// Response is a decoded NVP response. It is not modified after parsing.
type Response struct {
	Status        string
	CorrelationID string
	Timestamp     string
	Raw           string

	// Errors and Warnings are keyed by the numeric suffix of L_ERRORCODE<n>
	Errors   map[int]Message
	Warnings map[int]Message

	fields map[string]string
}

// ParseResponse decodes a raw NVP response body.
// An empty body means the gateway could not be reached and yields a synthetic failure.
func ParseResponse(raw string) *Response {
	resp := &Response{
		Raw:      raw,
		Errors:   make(map[int]Message),
		Warnings: make(map[int]Message),
		fields:   make(map[string]string),
	}

	if raw == "" {
		resp.Status = AckFailure
		resp.Errors[0] = Message{
			ErrorCode:    "0",
			ShortMessage: connectionErrorMessage,
			LongMessage:  connectionErrorMessage,
		}
		return resp
	}

	values, err := url.ParseQuery(raw)
	if err != nil && len(values) == 0 {
		// Nothing decodable; keep the raw text for diagnostics
		return resp
	}

	// Lower-case once so severity lookups see the same view as every other key.
	// When two keys only differ in case the later one in sort order wins.
	decoded := make(map[string]string, len(values))
	for _, key := range slices.Sorted(maps.Keys(values)) {
		vs := values[key]
		decoded[strings.ToLower(key)] = vs[len(vs)-1]
	}

	for key, value := range decoded {
		if key == "ack" {
			resp.Status = value
			continue
		}

		match := messageKeyPattern.FindStringSubmatch(key)
		if match == nil {
			resp.fields[key] = value
			continue
		}

		index, err := strconv.Atoi(match[2])
		if err != nil {
			resp.fields[key] = value
			continue
		}

		bucket := resp.Warnings
		if decoded["l_severitycode"+match[2]] == severityError {
			bucket = resp.Errors
		}
		msg := bucket[index]
		switch match[1] {
		case "errorcode":
			msg.ErrorCode = value
		case "shortmessage":
			msg.ShortMessage = value
		case "longmessage":
			msg.LongMessage = value
		}
		bucket[index] = msg
	}

	resp.CorrelationID = resp.fields["correlationid"]
	resp.Timestamp = resp.fields["timestamp"]

	return resp
}

// IsSuccess reports whether ACK is Success or SuccessWithWarning
func (r *Response) IsSuccess() bool {
	return r.Status == AckSuccess || r.Status == AckSuccessWithWarning
}

// Get returns a pass-through field, or "" when absent
func (r *Response) Get(key string) string {
	return r.fields[strings.ToLower(key)]
}

// Lookup returns a pass-through field and whether it was present
func (r *Response) Lookup(key string) (string, bool) {
	v, ok := r.fields[strings.ToLower(key)]
	return v, ok
}

// Fields returns a copy of every pass-through field
func (r *Response) Fields() map[string]string {
	return maps.Clone(r.fields)
}

func (r *Response) Token() string   { return r.fields["token"] }
func (r *Response) Version() string { return r.fields["version"] }
func (r *Response) Build() string   { return r.fields["build"] }

// Decimal parses an amount field such as AMT or PAYMENTINFO_0_AMT
func (r *Response) Decimal(key string) (decimal.Decimal, error) {
	v, ok := r.Lookup(key)
	if !ok {
		return decimal.Zero, fmt.Errorf("field %s not present in response", strings.ToLower(key))
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", strings.ToLower(key), err)
	}
	return d, nil
}

// SortedErrors returns the errors ordered by index
func (r *Response) SortedErrors() []Message {
	return sortedMessages(r.Errors)
}

// SortedWarnings returns the warnings ordered by index
func (r *Response) SortedWarnings() []Message {
	return sortedMessages(r.Warnings)
}

// FirstError returns the lowest-indexed error
func (r *Response) FirstError() (Message, bool) {
	errs := r.SortedErrors()
	if len(errs) == 0 {
		return Message{}, false
	}
	return errs[0], true
}

func sortedMessages(m map[int]Message) []Message {
	out := make([]Message, 0, len(m))
	for _, i := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[i])
	}
	return out
}
