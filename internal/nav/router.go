// Package nav decides where role-specific navigation leads.
package nav

import (
	"sync"

	"github.com/fjod/nayra_storefront/internal/domain"
)

// Destination is a client route.
type Destination struct {
	Path string
	// Panel selects a sub-view of the destination, e.g. the cart panel of
	// the shopper dashboard.
	Panel string
}

const PanelCart = "cart"

var (
	Login           = Destination{Path: "/dashboard"}
	ShopperHome     = Destination{Path: "/user/dashboard"}
	SellerHome      = Destination{Path: "/seller/dashboard"}
	AdminHome       = Destination{Path: "/admin/dashboard"}
	ShopperCartView = Destination{Path: "/user/dashboard", Panel: PanelCart}
)

const ShopperOnlyNotice = "Cart is available for shoppers only"

// Outcome of a click: either a destination to navigate to, or a notice to
// show in place.
type Outcome struct {
	Destination *Destination
	Notice      string
}

func (o Outcome) Navigates() bool {
	return o.Destination != nil
}

type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

// IdentityClick is the destination of the identity icon.
func (r *Router) IdentityClick(p *domain.Principal) Destination {
	if p == nil {
		return Login
	}
	return r.LoginDestination(p.Role)
}

// CartClick only lets shoppers through to the cart.
func (r *Router) CartClick(p *domain.Principal) Outcome {
	if p == nil || p.Role == domain.RoleAnonymous {
		d := Login
		return Outcome{Destination: &d}
	}
	if p.Role != domain.RoleShopper {
		return Outcome{Notice: ShopperOnlyNotice}
	}
	d := ShopperCartView
	return Outcome{Destination: &d}
}

// LoginDestination is where a principal of role lands after login.
func (r *Router) LoginDestination(role domain.Role) Destination {
	switch role {
	case domain.RoleShopper:
		return ShopperHome
	case domain.RoleSeller:
		return SellerHome
	case domain.RoleAdmin:
		return AdminHome
	default:
		return Login
	}
}

type Navigator interface {
	Navigate(Destination)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Destination)

func (f NavigatorFunc) Navigate(d Destination) {
	f(d)
}

// History records every navigation. It is safe for concurrent use.
type History struct {
	mu    sync.Mutex
	stack []Destination
}

func (h *History) Navigate(d Destination) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack, d)
}

// Current returns the last destination, or Login when nothing was visited.
func (h *History) Current() Destination {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		return Login
	}
	return h.stack[len(h.stack)-1]
}

func (h *History) Entries() []Destination {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Destination, len(h.stack))
	copy(out, h.stack)
	return out
}
