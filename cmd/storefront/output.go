package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fjod/nayra_storefront/internal/domain"
)

func printPrincipal(w io.Writer, p *domain.Principal) {
	if p == nil {
		fmt.Fprintln(w, "Not signed in")
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", p.DisplayName(), p.Email)
	fmt.Fprintf(w, "  id:   %s\n", p.ID)
	fmt.Fprintf(w, "  role: %s\n", p.Role)
	if p.Role == domain.RoleSeller {
		fmt.Fprintf(w, "  shop: %s (approved: %t)\n", p.ShopName, p.Approved)
	}
}

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}
	for _, p := range products {
		stock := fmt.Sprintf("%d in stock", p.Quantity)
		if !p.InStock() {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "%-24s  %-28s  %-9s  %12s  %.1f★ (%d)  %s\n",
			p.ID, truncate(p.Name, 28), p.Category, domain.FormatAmount(p.Price),
			domain.RoundRating(p.AverageRating), p.ReviewCount, stock)
	}
}

func printCart(w io.Writer, lines []domain.CartLine, summary domain.CartSummary) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	for _, l := range lines {
		price := "-"
		if l.Product.Price.Valid {
			price = domain.FormatAmount(l.Product.Price.Decimal)
		}
		fmt.Fprintf(w, "%-24s  %-28s  %10s x %-3d  %12s\n",
			l.ProductID, truncate(l.Product.Name, 28), price, l.Quantity, domain.FormatAmount(l.Subtotal()))
	}
	fmt.Fprintf(w, "Items: %d  Total: %s\n", summary.TotalItems, domain.FormatAmount(summary.TotalAmount))
}

func printOrders(w io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet")
		return
	}
	for _, o := range orders {
		date := "-"
		if !o.CreatedAt.IsZero() {
			date = o.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%-24s  %s  %-9s  %12s\n", o.ID, date, o.DisplayStatus(), domain.FormatAmount(o.TotalAmount))
		for _, p := range o.Products {
			fmt.Fprintf(w, "    %-28s x %-3d  %s\n", truncate(p.Name, 28), p.Quantity, domain.FormatAmount(p.Price))
		}
	}
}

func printReviews(w io.Writer, reviews []domain.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews yet")
		return
	}
	for _, r := range reviews {
		who := r.UserName
		if who == "" {
			who = r.UserID
		}
		fmt.Fprintf(w, "%-24s  %s  %s: %s\n", r.ID, strings.Repeat("★", r.Rating), who, r.Comment)
	}
}

func printUsers(w io.Writer, users []domain.Principal) {
	if len(users) == 0 {
		fmt.Fprintln(w, "Nobody is waiting for approval")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "%-24s  %-20s  %-28s  %s\n", u.ID, truncate(u.DisplayName(), 20), u.Email, u.ShopName)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func nonNilProducts(ps ...*domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
