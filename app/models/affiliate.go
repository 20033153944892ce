package models

import "time"

// Affiliate mirrors a Digistore24 affiliate. total_sales/total_commission
// are a materialized view over the sales table and are recomputed wholesale
// whenever a payment or refund references the affiliate.
type Affiliate struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AffiliateID     string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_affiliates_affiliate_id" json:"affiliate_id"`
	Name            string    `gorm:"type:varchar(255)" json:"name"`
	Email           string    `gorm:"type:varchar(255)" json:"email"`
	TotalSales      int64     `gorm:"not null;default:0" json:"total_sales"`
	TotalCommission float64   `gorm:"type:decimal(12,2);not null;default:0" json:"total_commission"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
