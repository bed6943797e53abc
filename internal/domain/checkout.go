package domain

import "github.com/shopspring/decimal"

// CheckoutProduct is one entry of the payment session request.
type CheckoutProduct struct {
	Title    string
	Price    decimal.Decimal
	Image    string
	Quantity int
}

type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// CheckoutProducts converts cart lines into the payment session payload.
// Lines without a known price are sent with a zero price.
func CheckoutProducts(lines []CartLine) []CheckoutProduct {
	products := make([]CheckoutProduct, 0, len(lines))
	for _, line := range lines {
		price := decimal.Zero
		if line.Product.Price.Valid {
			price = line.Product.Price.Decimal
		}
		products = append(products, CheckoutProduct{
			Title:    line.Product.Name,
			Price:    price,
			Image:    line.Product.Image,
			Quantity: line.Quantity,
		})
	}
	return products
}
