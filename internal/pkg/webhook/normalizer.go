package webhook

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
)

// ErrMalformedPayload is returned when a body cannot be parsed under any
// supported encoding.
var ErrMalformedPayload = errors.New("webhook payload could not be parsed")

// Field aliases accepted from the upstream platform. Digistore24 payload
// shapes vary between IPN versions, so the mapping is kept as one explicit
// table instead of inline fallbacks.
var (
	kindAliases      = []string{"event", "event_type"}
	eventIDAliases   = []string{"event_id", "id"}
	orderIDAliases   = []string{"order_id", "transaction_id"}
	productIDAliases = []string{"product_id"}
	productAliases   = []string{"product_name", "product"}
	amountAliases    = []string{"amount", "pay_amount", "transaction_amount"}
	currencyAliases  = []string{"currency", "transaction_currency"}
	emailAliases     = []string{"buyer_email", "email", "address_email"}
	nameAliases      = []string{"buyer_name", "address_full_name", "name"}
	affiliateAliases = []string{"affiliate_id", "affiliate", "affiliate_name"}
	statusAliases    = []string{"status", "billing_status"}
	dateAliases      = []string{"payment_date", "order_date", "created_at"}
)

// Kinds arrive either with the upstream "on_" prefix or bare.
var kindMap = map[string]EventKind{
	"on_payment":            EventPayment,
	"payment":               EventPayment,
	"on_rebill":             EventRebill,
	"rebill":                EventRebill,
	"on_refund":             EventRefund,
	"refund":                EventRefund,
	"on_affiliate_approved": EventAffiliateApproved,
	"affiliate_approved":    EventAffiliateApproved,
}

// ParseEvent converts a raw request body plus its declared content type into
// a canonical event. It touches neither storage nor network.
func ParseEvent(body []byte, contentType string) (*CanonicalEvent, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))

	var fields map[string]interface{}
	switch {
	case strings.Contains(ct, "json"):
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, ErrMalformedPayload
		}
	case strings.Contains(ct, "form-urlencoded"):
		parsed, err := parseFormBody(body)
		if err != nil {
			return nil, ErrMalformedPayload
		}
		fields = parsed
	default:
		// Raw text fallback: try JSON first, then key-value pairs.
		if err := json.Unmarshal(body, &fields); err != nil {
			parsed, formErr := parseFormBody(body)
			if formErr != nil {
				return nil, ErrMalformedPayload
			}
			fields = parsed
		}
	}

	return eventFromFields(fields), nil
}

func parseFormBody(body []byte) (map[string]interface{}, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrMalformedPayload
	}
	fields := make(map[string]interface{}, len(values))
	for key := range values {
		fields[key] = values.Get(key)
	}
	return fields, nil
}

func eventFromFields(fields map[string]interface{}) *CanonicalEvent {
	rawKind := stringField(fields, kindAliases...)

	// JSON payloads nest the record under "data"; form payloads are flat.
	data := fields
	if sub, ok := fields["data"].(map[string]interface{}); ok {
		data = sub
	}

	// Deliveries without an upstream id keep an empty EventID; the
	// processor dedups those on a payload hash instead.
	eventID := stringField(fields, eventIDAliases...)
	if eventID == "" {
		eventID = stringField(data, eventIDAliases...)
	}

	kind := EventKind(strings.ToLower(rawKind))
	if mapped, ok := kindMap[strings.ToLower(rawKind)]; ok {
		kind = mapped
	}

	status := stringField(data, statusAliases...)
	if status == "" {
		status = "completed"
	}
	currency := stringField(data, currencyAliases...)
	if currency == "" {
		currency = env.GetEnv("DEFAULT_CURRENCY", "EUR")
	}

	return &CanonicalEvent{
		Kind:    kind,
		RawKind: rawKind,
		EventID: eventID,
		Payload: Payload{
			OrderID:     stringField(data, orderIDAliases...),
			ProductID:   stringField(data, productIDAliases...),
			ProductName: stringField(data, productAliases...),
			Amount:      amountField(data, amountAliases...),
			Currency:    currency,
			BuyerEmail:  stringField(data, emailAliases...),
			BuyerName:   stringField(data, nameAliases...),
			AffiliateID: stringField(data, affiliateAliases...),
			Status:      status,
			PaymentDate: dateField(data, dateAliases...),
		},
	}
}

func stringField(fields map[string]interface{}, aliases ...string) string {
	for _, key := range aliases {
		raw, ok := fields[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// amountField coerces numeric or string amounts; unparsable values fall
// back to 0 rather than failing the whole event.
func amountField(fields map[string]interface{}, aliases ...string) float64 {
	for _, key := range aliases {
		raw, ok := fields[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			if v >= 0 {
				return v
			}
			return 0
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || parsed < 0 {
				return 0
			}
			return parsed
		}
	}
	return 0
}

func dateField(fields map[string]interface{}, aliases ...string) time.Time {
	raw := stringField(fields, aliases...)
	if raw != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Now()
}
