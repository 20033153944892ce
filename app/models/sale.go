package models

import "time"

const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusRefunded  = "refunded"
	SaleStatusCancelled = "cancelled"
)

// Sale is a single Digistore24 purchase. order_id is the business key:
// webhook deliveries and pull-sync both upsert against it, so retries and
// out-of-order refunds collapse into one row.
type Sale struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_sales_order_id" json:"order_id"`
	ProductID   string    `gorm:"type:varchar(191);index" json:"product_id,omitempty"`
	ProductName string    `gorm:"type:varchar(255)" json:"product_name"`
	Amount      float64   `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	Currency    string    `gorm:"type:varchar(8);not null;default:'EUR'" json:"currency"`
	BuyerEmail  string    `gorm:"type:varchar(255)" json:"buyer_email"`
	BuyerName   string    `gorm:"type:varchar(255)" json:"buyer_name"`
	AffiliateID *string   `gorm:"type:varchar(191);index" json:"affiliate_id,omitempty"`
	Status      string    `gorm:"type:varchar(32);not null;default:'completed';index" json:"status"`
	PaymentDate time.Time `gorm:"type:timestamp;not null" json:"payment_date"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsValidSaleStatus reports whether s is one of the persisted sale states.
func IsValidSaleStatus(s string) bool {
	switch s {
	case SaleStatusCompleted, SaleStatusPending, SaleStatusRefunded, SaleStatusCancelled:
		return true
	default:
		return false
	}
}
