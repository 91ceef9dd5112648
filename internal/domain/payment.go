package domain

import "github.com/shopspring/decimal"

// Payment settles (part of) an order. Amount is not tied to the order total.
type Payment struct {
	IDPayment    int             `json:"idPayment" gorm:"primaryKey;autoIncrement"`
	IDOrder      int             `json:"idOrder" gorm:"not null;index"`
	Date         Timestamp       `json:"date" gorm:"type:datetime(3)"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Ref          string          `json:"ref" gorm:"size:255;not null"`
	IsApproved   bool            `json:"isApproved" gorm:"not null;default:false"`
	CustomerName string          `json:"customerName" gorm:"size:255"`
}
