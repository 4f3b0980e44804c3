package ledger

import (
	"fmt"
	"strconv"

	"github.com/CodeBuddy07/accounting-server/internal/models"
)

// Subtotal sums price × quantity over the selected product lines.
func Subtotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// DiscountAmount converts a discount setting into a concrete amount.
// Percentage discounts apply to the subtotal; fixed discounts are taken as-is.
func DiscountAmount(dt models.DiscountType, value, subtotal float64) float64 {
	if dt == models.DiscountTypePercentage {
		return subtotal * value / 100
	}
	return value
}

// SellTotal is the final sale amount after discount. A discount larger than
// the subtotal yields a negative total; that is intentionally not guarded.
func SellTotal(subtotal, discountAmount float64) float64 {
	return subtotal - discountAmount
}

// DiscountNote renders the human-readable summary appended to a sell note,
// e.g. "Discount of 10% (৳100.00) on total ৳1000.00 applied."
func DiscountNote(dt models.DiscountType, value, amount, subtotal float64) string {
	if dt == models.DiscountTypePercentage {
		return fmt.Sprintf("Discount of %s%% (৳%.2f) on total ৳%.2f applied.",
			strconv.FormatFloat(value, 'f', -1, 64), amount, subtotal)
	}
	return fmt.Sprintf("Discount of ৳%.2f on total ৳%.2f applied.", amount, subtotal)
}

// FullNote joins the user's free-text note with the discount summary.
func FullNote(note, discountNote string) string {
	if note == "" {
		return discountNote
	}
	return note + " | " + discountNote
}
