package digistore

import (
	"context"
	"strings"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/cache"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	syncPageSize    = 50
	defaultMaxPages = 5

	lastSyncCacheKey = "digistore:sync:last_run"
)

// PurchaseLister is the slice of the API client the syncer needs.
type PurchaseLister interface {
	ListPurchases(ctx context.Context, page, limit int) ([]Purchase, error)
}

// SaleUpserter is the slice of the webhook repository the syncer needs.
type SaleUpserter interface {
	UpsertSale(sale *models.Sale) error
}

// Syncer reconciles platform purchases into the sale store. It is the
// pull-based counterpart of the webhook path and reuses the same
// idempotent upsert, so re-running a sync never duplicates rows.
type Syncer struct {
	client   PurchaseLister
	store    SaleUpserter
	maxPages int

	// recordLastRun is swappable for tests; defaults to the redis cache.
	recordLastRun func(t time.Time)
}

// NewSyncer creates a syncer from injected capabilities.
func NewSyncer(client PurchaseLister, store SaleUpserter) *Syncer {
	return &Syncer{
		client:   client,
		store:    store,
		maxPages: env.GetEnvInt("SYNC_MAX_PAGES", defaultMaxPages),
		recordLastRun: func(t time.Time) {
			if err := cache.Set(lastSyncCacheKey, t.UTC().Format(time.RFC3339), 0); err != nil {
				log.Warnf("[Sync] could not record last run: %v", err)
			}
		},
	}
}

// Run pages through the platform purchases and upserts each one. Per-row
// failures are logged and skipped; a page-level API failure aborts the run.
func (s *Syncer) Run(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	synced := 0
	for page := 1; page <= s.maxPages; page++ {
		purchases, err := s.client.ListPurchases(ctx, page, syncPageSize)
		if err != nil {
			return synced, err
		}
		if len(purchases) == 0 {
			break
		}

		for _, purchase := range purchases {
			if strings.TrimSpace(purchase.OrderID) == "" {
				// Without the business key the upsert would collapse every
				// such row onto one record.
				log.Warnf("[Sync] run=%s skipping purchase with empty order id", runID)
				continue
			}
			if err := s.store.UpsertSale(saleFromPurchase(purchase)); err != nil {
				log.Errorf("[Sync] run=%s could not save purchase %s: %v", runID, purchase.OrderID, err)
				continue
			}
			synced++
		}

		if len(purchases) < syncPageSize {
			break
		}
	}

	s.recordLastRun(time.Now())
	log.Infof("[Sync] run=%s reconciled %d purchases", runID, synced)
	return synced, nil
}

func saleFromPurchase(p Purchase) *models.Sale {
	status := strings.ToLower(strings.TrimSpace(p.Status))
	if !models.IsValidSaleStatus(status) {
		status = models.SaleStatusCompleted
	}
	currency := strings.TrimSpace(p.Currency)
	if currency == "" {
		currency = env.GetEnv("DEFAULT_CURRENCY", "EUR")
	}

	var affiliateID *string
	if id := strings.TrimSpace(p.AffiliateID); id != "" {
		affiliateID = &id
	}

	paymentDate := time.Now()
	if p.PaymentDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, p.PaymentDate); err == nil {
				paymentDate = t
				break
			}
		}
	}

	return &models.Sale{
		OrderID:     p.OrderID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Amount:      p.Amount,
		Currency:    currency,
		BuyerEmail:  p.BuyerEmail,
		BuyerName:   p.BuyerName,
		AffiliateID: affiliateID,
		Status:      status,
		PaymentDate: paymentDate,
	}
}
