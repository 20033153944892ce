package webhook

import "time"

// EventKind is the canonical event classification after alias resolution.
type EventKind string

const (
	EventPayment           EventKind = "payment"
	EventRefund            EventKind = "refund"
	EventAffiliateApproved EventKind = "affiliate_approved"
	EventRebill            EventKind = "rebill"
)

// Payload is the normalized sub-record of a canonical event. OrderID is the
// only hard requirement; everything else gets documented defaults.
type Payload struct {
	OrderID     string
	ProductID   string
	ProductName string
	Amount      float64
	Currency    string
	BuyerEmail  string
	BuyerName   string
	AffiliateID string
	Status      string
	PaymentDate time.Time
}

// CanonicalEvent is the internal representation of one inbound webhook
// delivery, regardless of the encoding it arrived in.
type CanonicalEvent struct {
	Kind    EventKind
	RawKind string
	EventID string
	Payload Payload
}

// Recognized reports whether the event kind maps to a dispatch handler.
// Unrecognized kinds still pass validation but are logged and dropped.
func (e *CanonicalEvent) Recognized() bool {
	switch e.Kind {
	case EventPayment, EventRefund, EventAffiliateApproved, EventRebill:
		return true
	default:
		return false
	}
}
