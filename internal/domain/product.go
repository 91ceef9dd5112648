package domain

import "github.com/shopspring/decimal"

// Product is never removed from the ledger; IsActive=false hides it.
type Product struct {
	IDProduct   int             `json:"idProduct" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Image       string          `json:"image" gorm:"size:1024"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	IsActive    bool            `json:"isActive" gorm:"not null;index"`
}
