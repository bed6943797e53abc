package domain

import "github.com/shopspring/decimal"

// ProductSnapshot is the product as embedded in a cart line by the backend.
// Price is nullable: a line whose price is unknown still counts towards the
// item total but contributes nothing to the amount.
type ProductSnapshot struct {
	ID        string
	Name      string
	Price     decimal.NullDecimal
	Image     string
	Available int
}

type CartLine struct {
	ProductID string
	Product   ProductSnapshot
	Quantity  int
}

// Valid checks 1 <= quantity <= available. Available == 0 means the backend
// did not report stock, in which case only the lower bound applies.
func (l CartLine) Valid() bool {
	if l.Quantity < 1 {
		return false
	}
	if l.Product.Available > 0 && l.Quantity > l.Product.Available {
		return false
	}
	return true
}

func (l CartLine) Subtotal() decimal.Decimal {
	if !l.Product.Price.Valid {
		return decimal.Zero
	}
	return l.Product.Price.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type CartSummary struct {
	TotalItems  int
	TotalAmount decimal.Decimal
}

// Summarize derives the cart totals from scratch.
func Summarize(lines []CartLine) CartSummary {
	summary := CartSummary{TotalAmount: decimal.Zero}
	for _, line := range lines {
		summary.TotalItems += line.Quantity
		summary.TotalAmount = summary.TotalAmount.Add(line.Subtotal())
	}
	return summary
}

// FormatAmount renders a rupee amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}
