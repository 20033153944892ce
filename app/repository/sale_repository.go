package repository

import (
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
	"gorm.io/gorm"
)

// saleRepository implements the SaleRepository interface
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository instance
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// GetByOrderID retrieves a sale by its business key
func (r *saleRepository) GetByOrderID(orderID string) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.Where("order_id = ?", orderID).First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// List retrieves sales with pagination, newest first, optionally bounded
// by a created_at window
func (r *saleRepository) List(offset, limit int, from, to *time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.windowed(from, to).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&sales).Error
	return sales, err
}

// Count returns the number of sales in the window
func (r *saleRepository) Count(from, to *time.Time) (int64, error) {
	var count int64
	err := r.windowed(from, to).Count(&count).Error
	return count, err
}

// SumCompleted reduces the window to {count, revenue} over completed sales
func (r *saleRepository) SumCompleted(from, to *time.Time) (int64, float64, error) {
	var row struct {
		Count   int64
		Revenue float64
	}
	err := r.windowed(from, to).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS revenue").
		Where("status = ?", models.SaleStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Revenue, nil
}

func (r *saleRepository) windowed(from, to *time.Time) *gorm.DB {
	q := r.db.Model(&models.Sale{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}
	return q
}
