package webhook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/notify"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// DefaultCommissionRate is applied when AFFILIATE_COMMISSION_RATE is unset.
const DefaultCommissionRate = 0.20

// Processor orchestrates validated events: persist sale/affiliate, update
// rollups, dispatch notifications. Failure isolation:
//   - the primary upsert failing is fatal to the event and is returned
//   - the affiliate rollup recompute failing is logged and swallowed; the
//     sale is the durable fact, the rollup is a repairable derived view
//   - notifications never fail processing (the Notifier contract swallows)
type Processor struct {
	repo           Repository
	notifier       notify.Notifier
	commissionRate float64
}

// NewProcessor creates a processor from injected capabilities.
func NewProcessor(repo Repository, notifier notify.Notifier, commissionRate float64) *Processor {
	if commissionRate <= 0 || commissionRate >= 1 {
		commissionRate = DefaultCommissionRate
	}
	return &Processor{repo: repo, notifier: notifier, commissionRate: commissionRate}
}

// RecordEvent persists the raw delivery idempotently. The second return is
// the stored row; the first reports whether this delivery was new. A
// redelivered event_id is not new and must not be dispatched again.
func (p *Processor) RecordEvent(ctx context.Context, ev *CanonicalEvent, rawBody []byte, signatureValid bool) (bool, *models.WebhookEvent, error) {
	_ = ctx
	eventID := ev.EventID
	if eventID == "" {
		sum := sha256.Sum256(rawBody)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		EventID:        eventID,
		EventType:      ev.RawKind,
		PayloadJSON:    string(rawBody),
		SignatureValid: signatureValid,
	}
	return p.repo.CreateEventIfNotExists(event)
}

// MarkProcessed records the processing outcome on a stored event.
func (p *Processor) MarkProcessed(ctx context.Context, eventRowID uint, processingErr error) error {
	_ = ctx
	if eventRowID == 0 {
		return errors.New("event row id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return p.repo.MarkEventProcessed(eventRowID, errMsg)
}

// Process dispatches one validated canonical event.
func (p *Processor) Process(ctx context.Context, ev *CanonicalEvent) error {
	switch ev.Kind {
	case EventPayment, EventRebill:
		return p.handlePayment(ctx, ev)
	case EventRefund:
		return p.handleRefund(ctx, ev)
	case EventAffiliateApproved:
		return p.handleAffiliateApproved(ctx, ev)
	default:
		log.Infof("[Webhook] unrecognized event kind %q (event %s), nothing to do", ev.RawKind, ev.EventID)
		return nil
	}
}

func (p *Processor) handlePayment(ctx context.Context, ev *CanonicalEvent) error {
	sale := saleFromEvent(ev, models.SaleStatusCompleted)
	if err := p.repo.UpsertSale(sale); err != nil {
		return fmt.Errorf("persisting sale %s: %w", ev.Payload.OrderID, err)
	}
	log.Infof("[Webhook] sale persisted: order=%s amount=%.2f", sale.OrderID, sale.Amount)

	if ev.Payload.AffiliateID != "" {
		p.recomputeAffiliateRollup(ev.Payload.AffiliateID)
	}

	p.notifier.NotifySale(ctx, notify.SaleNotification{
		OrderID:     ev.Payload.OrderID,
		ProductName: ev.Payload.ProductName,
		Amount:      ev.Payload.Amount,
		Currency:    ev.Payload.Currency,
		BuyerName:   ev.Payload.BuyerName,
		BuyerEmail:  ev.Payload.BuyerEmail,
	})
	return nil
}

func (p *Processor) handleRefund(ctx context.Context, ev *CanonicalEvent) error {
	sale := saleFromEvent(ev, models.SaleStatusRefunded)
	if err := p.repo.UpsertSale(sale); err != nil {
		return fmt.Errorf("persisting refund %s: %w", ev.Payload.OrderID, err)
	}
	log.Infof("[Webhook] sale marked refunded: order=%s", sale.OrderID)

	if ev.Payload.AffiliateID != "" {
		p.recomputeAffiliateRollup(ev.Payload.AffiliateID)
	}

	p.notifier.NotifyRefund(ctx, notify.RefundNotification{
		OrderID:     ev.Payload.OrderID,
		ProductName: ev.Payload.ProductName,
		Amount:      ev.Payload.Amount,
		Currency:    ev.Payload.Currency,
	})
	return nil
}

func (p *Processor) handleAffiliateApproved(ctx context.Context, ev *CanonicalEvent) error {
	if ev.Payload.AffiliateID == "" {
		log.Warnf("[Webhook] affiliate_approved event %s missing affiliate_id, skipping", ev.EventID)
		return nil
	}

	name := ev.Payload.BuyerName
	if name == "" {
		name = "Unknown"
	}
	aff := &models.Affiliate{
		AffiliateID:     ev.Payload.AffiliateID,
		Name:            name,
		Email:           ev.Payload.BuyerEmail,
		TotalSales:      0,
		TotalCommission: 0,
	}
	if err := p.repo.UpsertAffiliate(aff); err != nil {
		return fmt.Errorf("persisting affiliate %s: %w", ev.Payload.AffiliateID, err)
	}
	log.Infof("[Webhook] affiliate approved: %s", aff.AffiliateID)

	p.notifier.NotifyAffiliate(ctx, notify.AffiliateNotification{
		AffiliateID: aff.AffiliateID,
		Name:        aff.Name,
		Email:       aff.Email,
	})
	return nil
}

// recomputeAffiliateRollup re-derives total_sales/total_commission from all
// completed sales currently in the store. Recomputation instead of
// incrementing makes the rollup idempotent and convergent regardless of the
// order deliveries arrive in. Errors here never fail the event.
func (p *Processor) recomputeAffiliateRollup(affiliateID string) {
	count, total, err := p.repo.SumCompletedSalesByAffiliate(affiliateID)
	if err != nil {
		log.Errorf("[Webhook] rollup query failed for affiliate %s: %v", affiliateID, err)
		return
	}

	aff, err := p.repo.GetAffiliateByAffiliateID(affiliateID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[Webhook] rollup lookup failed for affiliate %s: %v", affiliateID, err)
			return
		}
		// Sales can reference an affiliate we have not seen an approval
		// event for yet; create the row so totals are not lost.
		aff = &models.Affiliate{AffiliateID: affiliateID}
	}

	aff.TotalSales = count
	aff.TotalCommission = total * p.commissionRate
	if err := p.repo.UpsertAffiliate(aff); err != nil {
		log.Errorf("[Webhook] rollup update failed for affiliate %s: %v", affiliateID, err)
		return
	}
	log.Infof("[Webhook] affiliate rollup updated: %s sales=%d commission=%.2f", affiliateID, count, aff.TotalCommission)
}

func saleFromEvent(ev *CanonicalEvent, status string) *models.Sale {
	var affiliateID *string
	if ev.Payload.AffiliateID != "" {
		id := ev.Payload.AffiliateID
		affiliateID = &id
	}
	return &models.Sale{
		OrderID:     ev.Payload.OrderID,
		ProductID:   ev.Payload.ProductID,
		ProductName: ev.Payload.ProductName,
		Amount:      ev.Payload.Amount,
		Currency:    ev.Payload.Currency,
		BuyerEmail:  ev.Payload.BuyerEmail,
		BuyerName:   ev.Payload.BuyerName,
		AffiliateID: affiliateID,
		Status:      status,
		PaymentDate: ev.Payload.PaymentDate,
	}
}
