package service

import (
	"context"
	"testing"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *mockBackend
	history *nav.History
	store   *session.Store
}

func newFixture(role domain.Role) *fixture {
	f := &fixture{backend: newMockBackend(), history: &nav.History{}}
	f.store = session.NewStore(f.history, nil)
	if role != domain.RoleAnonymous {
		f.store.SetPrincipal(&domain.Principal{ID: "u1", Role: role})
	}
	return f
}

func (f *fixture) cart() *CartService {
	return NewCartService(f.backend, f.store, f.history, nil)
}

func TestCart_AddRefetchesAndSummarizes(t *testing.T) {
	f := newFixture(domain.RoleShopper)
	svc := f.cart()
	ctx := context.Background()

	_, err := svc.Add(ctx, "p1", 2)
	require.NoError(t, err)
	lines, err := svc.Add(ctx, "p2", 1)
	require.NoError(t, err)

	assert.Len(t, lines, 2)
	assert.Equal(t, []string{"AddToCart", "GetCart", "AddToCart", "GetCart"}, f.backend.Calls())
	summary := f.store.CartSummary()
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, "250", summary.TotalAmount.String())
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	f := newFixture(domain.RoleShopper)
	svc := f.cart()
	ctx := context.Background()

	_, err := svc.Add(ctx, "p1", 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "p2", 1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 5, f.store.CartSummary().TotalItems)

	lines, err := svc.Remove(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "400", f.store.CartSummary().TotalAmount.String())

	lines, err = svc.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 0, f.store.CartSummary().TotalItems)
}

func TestCart_InvalidQuantityNeverReachesBackend(t *testing.T) {
	f := newFixture(domain.RoleShopper)

	_, err := f.cart().Update(context.Background(), "p1", 0)
	require.ErrorIs(t, err, ErrInvalidForm)
	var fe *FormError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "Quantity")
	assert.Empty(t, f.backend.Calls())
}

func TestCart_UnauthorizedNavigatesToLoginWithoutRefetch(t *testing.T) {
	f := newFixture(domain.RoleShopper)
	f.backend.fail("AddToCart", errUnauthorized)

	_, err := f.cart().Add(context.Background(), "p1", 1)

	require.ErrorIs(t, err, ErrLoginRequired)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, []string{"AddToCart"}, f.backend.Calls())
	assert.Equal(t, nav.Login, f.history.Current())
	assert.Nil(t, f.store.Principal())
}

func TestCart_UnauthorizedOnRefetch(t *testing.T) {
	f := newFixture(domain.RoleShopper)
	f.backend.fail("GetCart", errUnauthorized)

	_, err := f.cart().Remove(context.Background(), "p1")

	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, nav.Login, f.history.Current())
}

func TestCart_OtherFailureKeepsSession(t *testing.T) {
	f := newFixture(domain.RoleShopper)
	backendErr := &api.Error{Kind: api.KindValidation, Status: 400, Message: "Quantity exceeds stock"}
	f.backend.fail("AddToCart", backendErr)

	_, err := f.cart().Add(context.Background(), "p1", 99)

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrLoginRequired))
	assert.Equal(t, "Quantity exceeds stock", Message(err))
	assert.NotNil(t, f.store.Principal())
	assert.Empty(t, f.history.Entries())
}

func TestCart_AnonymousGoesToLogin(t *testing.T) {
	f := newFixture(domain.RoleAnonymous)

	_, err := f.cart().Add(context.Background(), "p1", 1)

	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Empty(t, f.backend.Calls())
	assert.Equal(t, nav.Login, f.history.Current())
}

func TestCart_SellerAndAdminAreRejected(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleSeller, domain.RoleAdmin} {
		f := newFixture(role)

		_, err := f.cart().Load(context.Background())

		require.ErrorIs(t, err, ErrShopperOnly, role.String())
		assert.Empty(t, f.backend.Calls())
		assert.Empty(t, f.history.Entries())
	}
}
