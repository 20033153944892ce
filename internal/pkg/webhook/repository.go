package webhook

import (
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the webhook processor.
type Repository interface {
	UpsertSale(sale *models.Sale) error
	UpsertAffiliate(aff *models.Affiliate) error
	GetAffiliateByAffiliateID(affiliateID string) (*models.Affiliate, error)
	SumCompletedSalesByAffiliate(affiliateID string) (count int64, total float64, err error)
	CreateEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkEventProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a webhook repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// UpsertSale is a full-record replace keyed on order_id. A refund arriving
// after (or before) its payment both land on the same row; last writer wins
// at the storage layer, which is the only concurrency mechanism needed.
func (r *gormRepository) UpsertSale(sale *models.Sale) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "order_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_id",
			"product_name",
			"amount",
			"currency",
			"buyer_email",
			"buyer_name",
			"affiliate_id",
			"status",
			"payment_date",
			"updated_at",
		}),
	}).Create(sale).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("order_id = ?", sale.OrderID).First(sale).Error
}

func (r *gormRepository) UpsertAffiliate(aff *models.Affiliate) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "affiliate_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"email",
			"total_sales",
			"total_commission",
			"updated_at",
		}),
	}).Create(aff).Error; err != nil {
		return err
	}

	return r.db.Where("affiliate_id = ?", aff.AffiliateID).First(aff).Error
}

func (r *gormRepository) GetAffiliateByAffiliateID(affiliateID string) (*models.Affiliate, error) {
	var aff models.Affiliate
	err := r.db.Where("affiliate_id = ?", affiliateID).First(&aff).Error
	if err != nil {
		return nil, err
	}
	return &aff, nil
}

func (r *gormRepository) SumCompletedSalesByAffiliate(affiliateID string) (int64, float64, error) {
	var row struct {
		Count int64
		Total float64
	}
	err := r.db.Model(&models.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("affiliate_id = ? AND status = ?", affiliateID, models.SaleStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Total, nil
}

func (r *gormRepository) CreateEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("event_id = ?", event.EventID).First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkEventProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
