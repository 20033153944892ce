package notify

import "context"

// SaleNotification carries the fields shown in "new sale" messages.
type SaleNotification struct {
	OrderID     string
	ProductName string
	Amount      float64
	Currency    string
	BuyerName   string
	BuyerEmail  string
}

// RefundNotification carries the fields shown in refund messages.
type RefundNotification struct {
	OrderID     string
	ProductName string
	Amount      float64
	Currency    string
}

// AffiliateNotification carries the fields shown when an affiliate is
// approved.
type AffiliateNotification struct {
	AffiliateID string
	Name        string
	Email       string
}

// Notifier delivers best-effort notifications. Implementations never
// return errors to the caller: transport failures (missing configuration,
// non-2xx responses, network errors) are swallowed and logged, because
// notifications are observability, not correctness.
type Notifier interface {
	NotifySale(ctx context.Context, n SaleNotification)
	NotifyRefund(ctx context.Context, n RefundNotification)
	NotifyAffiliate(ctx context.Context, n AffiliateNotification)
}

// Multi fans one notification out to every configured channel.
type Multi []Notifier

func (m Multi) NotifySale(ctx context.Context, n SaleNotification) {
	for _, c := range m {
		c.NotifySale(ctx, n)
	}
}

func (m Multi) NotifyRefund(ctx context.Context, n RefundNotification) {
	for _, c := range m {
		c.NotifyRefund(ctx, n)
	}
}

func (m Multi) NotifyAffiliate(ctx context.Context, n AffiliateNotification) {
	for _, c := range m {
		c.NotifyAffiliate(ctx, n)
	}
}
