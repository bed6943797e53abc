package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryRing     Category = "Ring"
	CategoryNecklace Category = "Necklace"
	CategoryBangles  Category = "Bangles"
	CategoryPendant  Category = "Pendant"
)

var Categories = []Category{CategoryRing, CategoryNecklace, CategoryBangles, CategoryPendant}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type Product struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      Category        `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Image         string          `json:"image"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int             `json:"numReviews"`
	SellerID      string          `json:"seller,omitempty"`
}

func (p Product) InStock() bool {
	return p.Quantity > 0
}

// RoundRating rounds an average rating to the nearest half star, clamped to 0..5.
func RoundRating(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return math.Round(r*2) / 2
}
