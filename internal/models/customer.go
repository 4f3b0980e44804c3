package models

import "time"

// Customer is a counterparty ledger account, used for both customers and
// suppliers. Balance sign convention: positive = the business owes the
// customer, negative = the customer owes the business.
type Customer struct {
	ID    uint    `gorm:"primaryKey"`
	Name  string  `gorm:"size:100;not null;index"`
	Phone string  `gorm:"size:30;not null;index"`
	Note  string  `gorm:"size:500"`

	// Balance is only ever mutated together with a recorded transaction.
	Balance float64 `gorm:"not null;default:0"`

	// OpeningBalance is fixed at creation; the reconciliation check needs it
	// to recompute Balance from the transaction history.
	OpeningBalance float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
