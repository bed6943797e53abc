package service

import (
	"slices"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
)

// guard enforces who may call an operation and reacts to the backend
// rejecting the session mid-use.
type guard struct {
	store     *session.Store
	navigator nav.Navigator
}

// require lets through the given roles. Anonymous callers are sent to the
// login surface; signed-in callers of another role get denied.
func (g guard) require(denied error, roles ...domain.Role) error {
	role := g.store.Role()
	if slices.Contains(roles, role) {
		return nil
	}
	if role == domain.RoleAnonymous {
		if g.navigator != nil {
			g.navigator.Navigate(nav.Login)
		}
		return ErrLoginRequired
	}
	return denied
}

func (g guard) handle(err error) error {
	if api.IsUnauthorized(err) {
		g.store.ClearPrincipal()
		return loginRequired(err)
	}
	return err
}
