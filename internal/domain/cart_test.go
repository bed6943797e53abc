package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(price string, qty int) CartLine {
	l := CartLine{Quantity: qty}
	if price != "" {
		l.Product.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return l
}

func TestSummarize_Scenario(t *testing.T) {
	summary := Summarize([]CartLine{line("100", 2), line("50", 1)})

	assert.Equal(t, 3, summary.TotalItems)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(250)), "got %s", summary.TotalAmount)
}

func TestSummarize_MissingPriceCountsItemsOnly(t *testing.T) {
	summary := Summarize([]CartLine{line("", 4), line("19.99", 1)})

	assert.Equal(t, 5, summary.TotalItems)
	assert.Equal(t, "19.99", summary.TotalAmount.String())
}

func TestSummarize_Empty(t *testing.T) {
	for _, lines := range [][]CartLine{nil, {}} {
		summary := Summarize(lines)
		assert.Equal(t, 0, summary.TotalItems)
		assert.True(t, summary.TotalAmount.IsZero())
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	lines := []CartLine{line("12.50", 3), line("", 1), line("0.10", 7)}

	first := Summarize(lines)
	second := Summarize(lines)

	assert.Equal(t, first.TotalItems, second.TotalItems)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.Equal(t, "38.2", first.TotalAmount.String())
}

func TestCartLine_Valid(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		available int
		want      bool
	}{
		{"within stock", 2, 5, true},
		{"at stock", 5, 5, true},
		{"over stock", 6, 5, false},
		{"zero quantity", 0, 5, false},
		{"stock not reported", 9, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := CartLine{Quantity: tt.quantity, Product: ProductSnapshot{Available: tt.available}}
			assert.Equal(t, tt.want, l.Valid())
		})
	}
}

func TestCheckoutProducts(t *testing.T) {
	lines := []CartLine{
		{Product: ProductSnapshot{Name: "Solitaire", Image: "ring.jpg", Price: decimal.NewNullDecimal(decimal.NewFromInt(1200))}, Quantity: 1},
		{Product: ProductSnapshot{Name: "Mystery"}, Quantity: 2},
	}

	products := CheckoutProducts(lines)

	assert.Len(t, products, 2)
	assert.Equal(t, "Solitaire", products[0].Title)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "ring.jpg", products[0].Image)
	assert.True(t, products[1].Price.IsZero())
	assert.Equal(t, 2, products[1].Quantity)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹250.00", FormatAmount(decimal.NewFromInt(250)))
	assert.Equal(t, "₹0.10", FormatAmount(decimal.RequireFromString("0.1")))
}
