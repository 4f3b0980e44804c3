// Package ledger holds the balance rules shared by transaction entry and the
// customer report: how each transaction kind moves a counterparty balance,
// and how a balance is recomputed from history.
//
// Sign convention: positive balance = the business owes the counterparty,
// negative = the counterparty owes the business.
package ledger

import (
	"errors"

	"github.com/CodeBuddy07/accounting-server/internal/models"
)

var (
	ErrInvalidType        = errors.New("type must be buy, sell, expense, due or receivable")
	ErrInvalidPaymentType = errors.New("paymentType must be cash or due")
	ErrNoItems            = errors.New("buy and sell transactions need at least one product")
	ErrItemsNotAllowed    = errors.New("only buy and sell transactions carry products")
	ErrNoCustomer         = errors.New("this transaction type requires a customer")
	ErrCustomerNotAllowed = errors.New("expense transactions have no customer")
	ErrAmountNotPositive  = errors.New("total must be greater than zero")
	ErrItemInvalid        = errors.New("product lines need a positive price and quantity")
)

// Item is one product line of a buy or sell entry.
type Item struct {
	ProductID uint
	Price     float64
	Quantity  int
}

// Entry is a classified, validated transaction. Build one through Classify;
// a hand-built Entry carries no validity guarantee.
type Entry struct {
	Type        models.TransactionType
	PaymentType models.PaymentType
	HasCustomer bool
	Items       []Item
	Total       float64
}

// Input is the raw transaction intent as submitted.
type Input struct {
	Type        models.TransactionType
	PaymentType models.PaymentType
	HasCustomer bool
	Items       []Item
	Total       float64
}

// Classify validates the per-kind shape of a transaction and returns the
// entry the accumulator understands.
//
// A sell's total comes out of the discount calculator and is allowed to be
// zero or negative (a discount exceeding the subtotal is not rejected).
func Classify(in Input) (Entry, error) {
	switch in.Type {
	case models.TransactionTypeBuy, models.TransactionTypeSell:
		if in.PaymentType != models.PaymentTypeCash && in.PaymentType != models.PaymentTypeDue {
			return Entry{}, ErrInvalidPaymentType
		}
		if len(in.Items) == 0 {
			return Entry{}, ErrNoItems
		}
		for _, it := range in.Items {
			if it.Price < 0 || it.Quantity < 1 {
				return Entry{}, ErrItemInvalid
			}
		}
		if !in.HasCustomer {
			return Entry{}, ErrNoCustomer
		}
		if in.Type == models.TransactionTypeBuy && in.Total <= 0 {
			return Entry{}, ErrAmountNotPositive
		}

	case models.TransactionTypeExpense:
		if in.HasCustomer {
			return Entry{}, ErrCustomerNotAllowed
		}
		if len(in.Items) > 0 {
			return Entry{}, ErrItemsNotAllowed
		}
		if in.Total <= 0 {
			return Entry{}, ErrAmountNotPositive
		}

	case models.TransactionTypeDue, models.TransactionTypeReceivable:
		if !in.HasCustomer {
			return Entry{}, ErrNoCustomer
		}
		if len(in.Items) > 0 {
			return Entry{}, ErrItemsNotAllowed
		}
		if in.Total <= 0 {
			return Entry{}, ErrAmountNotPositive
		}

	default:
		return Entry{}, ErrInvalidType
	}

	return Entry(in), nil
}

// Effect returns the signed balance delta of an entry.
//
//	buy  + due        → +total (we owe the supplier more)
//	sell + due        → -total (the customer owes us more)
//	due payment       → -total
//	receivable        → +total
//	cash buy/sell     →  0
//	expense           →  0
func Effect(e Entry) float64 {
	switch e.Type {
	case models.TransactionTypeBuy:
		if e.PaymentType == models.PaymentTypeDue {
			return e.Total
		}
	case models.TransactionTypeSell:
		if e.PaymentType == models.PaymentTypeDue {
			return -e.Total
		}
	case models.TransactionTypeDue:
		return -e.Total
	case models.TransactionTypeReceivable:
		return e.Total
	}
	return 0
}

// Apply computes the balance after an entry. There is no floor or ceiling;
// debt in either direction is unbounded.
func Apply(balance float64, e Entry) float64 {
	return balance + Effect(e)
}

// Reconcile recomputes a balance from an opening balance and the full entry
// history, in order. The result must match the incrementally maintained
// customer balance; a mismatch means the ledger is corrupt.
func Reconcile(opening float64, entries []Entry) float64 {
	balance := opening
	for _, e := range entries {
		balance = Apply(balance, e)
	}
	return balance
}
