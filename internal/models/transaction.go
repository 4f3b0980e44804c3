package models

import "time"

type TransactionType string

const (
	TransactionTypeBuy        TransactionType = "buy"
	TransactionTypeSell       TransactionType = "sell"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeDue        TransactionType = "due"        // manual payment to the customer
	TransactionTypeReceivable TransactionType = "receivable" // manual collection from the customer
)

type PaymentType string

const (
	PaymentTypeCash PaymentType = "cash"
	PaymentTypeDue  PaymentType = "due"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Transaction is immutable once created. Total carries the entered amount;
// for sells it is subtotal minus the discount.
type Transaction struct {
	ID   uint            `gorm:"primaryKey"`
	Type TransactionType `gorm:"type:varchar(20);not null;index"`

	// Expenses have no counterparty. Name is denormalized so history stays
	// readable after a customer is gone.
	CustomerID   *uint     `gorm:"index"`
	CustomerName string    `gorm:"size:100"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`

	// Discount fields are populated for sells only.
	Subtotal       float64      `gorm:"not null;default:0"`
	DiscountType   DiscountType `gorm:"type:varchar(20)"`
	DiscountValue  float64      `gorm:"not null;default:0"`
	DiscountAmount float64      `gorm:"not null;default:0"`

	Total       float64     `gorm:"not null"`
	Date        time.Time   `gorm:"index;not null"`
	PaymentType PaymentType `gorm:"type:varchar(10);not null"`
	Note        string      `gorm:"size:1000"`
	SMS         bool        `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TransactionItem struct {
	ID            uint    `gorm:"primaryKey"`
	TransactionID uint    `gorm:"index;not null"`
	ProductID     uint    `gorm:"index;not null"`
	Price         float64 `gorm:"not null"` // unit price at entry time
	Quantity      int     `gorm:"not null"`
	CreatedAt     time.Time
}
