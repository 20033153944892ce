package webhook

import "github.com/gofiber/fiber/v2/log"

// Validate checks the minimum shape a canonical event needs before
// dispatch. It deliberately accepts unknown event kinds: the upstream
// event catalogue is not under our control, so only structurally broken
// events are rejected. Rejection is a false return, never an error.
func Validate(ev *CanonicalEvent) bool {
	if ev == nil {
		log.Warn("[Webhook] validation failed: event is nil")
		return false
	}
	if ev.RawKind == "" {
		log.Warn("[Webhook] validation failed: missing event kind")
		return false
	}
	if ev.Payload.OrderID == "" {
		// Affiliate approvals reference an affiliate, not an order; the
		// processor guards against a missing affiliate_id itself.
		if ev.Kind != EventAffiliateApproved {
			log.Warnf("[Webhook] validation failed: missing order_id (event %s)", ev.EventID)
			return false
		}
	}
	if !ev.Recognized() {
		log.Warnf("[Webhook] unknown event kind %q - accepting anyway", ev.RawKind)
	}
	return true
}
