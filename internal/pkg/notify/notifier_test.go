package notify

import (
	"context"
	"testing"
)

type countingNotifier struct {
	sales, refunds, affiliates int
}

func (c *countingNotifier) NotifySale(ctx context.Context, n SaleNotification)           { c.sales++ }
func (c *countingNotifier) NotifyRefund(ctx context.Context, n RefundNotification)       { c.refunds++ }
func (c *countingNotifier) NotifyAffiliate(ctx context.Context, n AffiliateNotification) { c.affiliates++ }

func TestMultiFansOutToAllChannels(t *testing.T) {
	a := &countingNotifier{}
	b := &countingNotifier{}
	m := Multi{a, b}

	ctx := context.Background()
	m.NotifySale(ctx, SaleNotification{OrderID: "O-1"})
	m.NotifyRefund(ctx, RefundNotification{OrderID: "O-1"})
	m.NotifyAffiliate(ctx, AffiliateNotification{AffiliateID: "A-1"})

	for i, c := range []*countingNotifier{a, b} {
		if c.sales != 1 || c.refunds != 1 || c.affiliates != 1 {
			t.Fatalf("channel %d: sales=%d refunds=%d affiliates=%d", i, c.sales, c.refunds, c.affiliates)
		}
	}
}

func TestMultiEmptyIsNoOp(t *testing.T) {
	var m Multi
	m.NotifySale(context.Background(), SaleNotification{OrderID: "O-1"})
}
