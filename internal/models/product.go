package models

import "time"

// Product is a price-list entry. There is no stock tracking.
type Product struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:100;not null;index"`
	BuyingPrice  float64 `gorm:"not null"`
	SellingPrice float64 `gorm:"not null"`
	Note         string  `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
