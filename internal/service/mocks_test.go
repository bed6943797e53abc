package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/cache"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var errUnauthorized = &api.Error{Kind: api.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Not authorized"}

// mockBackend fakes the REST backend for every client interface. Calls are
// recorded by method name; errs makes a method fail.
type mockBackend struct {
	m     sync.Mutex
	calls []string
	errs  map[string]error

	principal *domain.Principal
	loginRole domain.Role
	lastReset any

	cart    []domain.CartLine
	catalog map[string]domain.ProductSnapshot

	products  []domain.Product
	orders    []domain.Order
	sessionID string
	checkout  []domain.CheckoutProduct
	created   int

	lastStock  api.StockUpdate
	lastEdit   api.ProductEdit
	lastUpdate api.UserUpdate
	lastReview api.NewReview
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		errs: map[string]error{},
		catalog: map[string]domain.ProductSnapshot{
			"p1": {ID: "p1", Name: "Ring", Price: decimal.NewNullDecimal(decimal.NewFromInt(100)), Available: 5},
			"p2": {ID: "p2", Name: "Chain", Price: decimal.NewNullDecimal(decimal.NewFromInt(50)), Available: 5},
		},
		sessionID: "cs_test_1",
	}
}

func (m *mockBackend) record(name string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls = append(m.calls, name)
	return m.errs[name]
}

func (m *mockBackend) fail(name string, err error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.errs[name] = err
}

func (m *mockBackend) Calls() []string {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockBackend) count(name string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

// auth

func (m *mockBackend) Login(_ context.Context, role domain.Role, creds api.Credentials) (*domain.Principal, error) {
	if err := m.record("Login"); err != nil {
		return nil, err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.loginRole = role
	if m.principal != nil {
		p := *m.principal
		return &p, nil
	}
	return &domain.Principal{ID: "u1", Email: creds.Email, Role: role}, nil
}

func (m *mockBackend) Logout(context.Context, domain.Role) error {
	return m.record("Logout")
}

func (m *mockBackend) Profile(_ context.Context, role domain.Role) (*domain.Principal, error) {
	if err := m.record("Profile"); err != nil {
		return nil, err
	}
	m.m.Lock()
	defer m.m.Unlock()
	if m.principal != nil {
		p := *m.principal
		return &p, nil
	}
	return &domain.Principal{ID: "u1", Name: "Fresh", Role: role}, nil
}

func (m *mockBackend) RegisterShopper(context.Context, api.ShopperRegistration) (*api.Message, error) {
	if err := m.record("RegisterShopper"); err != nil {
		return nil, err
	}
	return &api.Message{Message: "Registered"}, nil
}

func (m *mockBackend) RegisterSeller(context.Context, api.SellerRegistration) (*api.Message, error) {
	if err := m.record("RegisterSeller"); err != nil {
		return nil, err
	}
	return &api.Message{Message: "Seller registered, awaiting approval"}, nil
}

func (m *mockBackend) ResetPassword(_ context.Context, r api.PasswordReset) (*api.Message, error) {
	if err := m.record("ResetPassword"); err != nil {
		return nil, err
	}
	m.m.Lock()
	m.lastReset = r
	m.m.Unlock()
	return &api.Message{Message: "Password updated"}, nil
}

func (m *mockBackend) ResetSellerPassword(_ context.Context, r api.SellerPasswordReset) (*api.Message, error) {
	if err := m.record("ResetSellerPassword"); err != nil {
		return nil, err
	}
	m.m.Lock()
	m.lastReset = r
	m.m.Unlock()
	return &api.Message{Message: "Password updated"}, nil
}

func (m *mockBackend) UpdateProfile(_ context.Context, u api.ProfileUpdate) (*domain.Principal, error) {
	if err := m.record("UpdateProfile"); err != nil {
		return nil, err
	}
	return &domain.Principal{ID: "u1", Name: u.Name, Email: u.Email, Role: domain.RoleShopper}, nil
}

func (m *mockBackend) UpdateSellerProfile(context.Context, api.SellerProfileUpdate) (*api.Message, error) {
	if err := m.record("UpdateSellerProfile"); err != nil {
		return nil, err
	}
	return &api.Message{Message: "Profile updated successfully"}, nil
}

func (m *mockBackend) DeleteAccount(context.Context, domain.Role) error {
	return m.record("DeleteAccount")
}

// cart

func (m *mockBackend) GetCart(context.Context) ([]domain.CartLine, error) {
	if err := m.record("GetCart"); err != nil {
		return nil, err
	}
	m.m.Lock()
	defer m.m.Unlock()
	return append([]domain.CartLine(nil), m.cart...), nil
}

func (m *mockBackend) AddToCart(_ context.Context, productID string, quantity int) error {
	if err := m.record("AddToCart"); err != nil {
		return err
	}
	m.m.Lock()
	defer m.m.Unlock()
	for i := range m.cart {
		if m.cart[i].ProductID == productID {
			m.cart[i].Quantity += quantity
			return nil
		}
	}
	m.cart = append(m.cart, domain.CartLine{ProductID: productID, Product: m.catalog[productID], Quantity: quantity})
	return nil
}

func (m *mockBackend) UpdateCartLine(_ context.Context, productID string, quantity int) error {
	if err := m.record("UpdateCartLine"); err != nil {
		return err
	}
	m.m.Lock()
	defer m.m.Unlock()
	for i := range m.cart {
		if m.cart[i].ProductID == productID {
			m.cart[i].Quantity = quantity
		}
	}
	return nil
}

func (m *mockBackend) RemoveCartLine(_ context.Context, productID string) error {
	if err := m.record("RemoveCartLine"); err != nil {
		return err
	}
	m.m.Lock()
	defer m.m.Unlock()
	for i := range m.cart {
		if m.cart[i].ProductID == productID {
			m.cart = append(m.cart[:i], m.cart[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockBackend) ClearCart(context.Context) error {
	if err := m.record("ClearCart"); err != nil {
		return err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return nil
}

// checkout

func (m *mockBackend) CreateCheckoutSession(_ context.Context, products []domain.CheckoutProduct) (string, error) {
	if err := m.record("CreateCheckoutSession"); err != nil {
		return "", err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.checkout = products
	return m.sessionID, nil
}

func (m *mockBackend) CreateOrder(_ context.Context, paymentID string) (*domain.Order, error) {
	if err := m.record("CreateOrder"); err != nil {
		return nil, err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.created++
	m.cart = nil
	return &domain.Order{ID: "o1", PaymentID: paymentID, Status: domain.OrderStatusPending}, nil
}

// catalog

func (m *mockBackend) Collection(context.Context, domain.Category) ([]domain.Product, error) {
	return m.listing("Collection")
}

func (m *mockBackend) MostLoved(context.Context) ([]domain.Product, error) {
	return m.listing("MostLoved")
}

func (m *mockBackend) NewArrivals(context.Context) ([]domain.Product, error) {
	return m.listing("NewArrivals")
}

func (m *mockBackend) SearchProducts(context.Context, string) ([]domain.Product, error) {
	return m.listing("SearchProducts")
}

func (m *mockBackend) listing(name string) ([]domain.Product, error) {
	if err := m.record(name); err != nil {
		return nil, err
	}
	m.m.Lock()
	defer m.m.Unlock()
	return m.products, nil
}

// reviews

func (m *mockBackend) Reviews(context.Context, string) ([]domain.Review, error) {
	if err := m.record("Reviews"); err != nil {
		return nil, err
	}
	return []domain.Review{{ID: "r1", Rating: 5, Comment: "Lovely"}}, nil
}

func (m *mockBackend) AddReview(_ context.Context, r api.NewReview) (*api.Message, error) {
	if err := m.record("AddReview"); err != nil {
		return nil, err
	}
	m.m.Lock()
	m.lastReview = r
	m.m.Unlock()
	return &api.Message{Message: "Review added"}, nil
}

func (m *mockBackend) DeleteReview(context.Context, string) error {
	return m.record("DeleteReview")
}

// orders

func (m *mockBackend) MyOrders(context.Context) ([]domain.Order, error) {
	return m.orderList("MyOrders")
}

func (m *mockBackend) SellerOrders(context.Context) ([]domain.Order, error) {
	return m.orderList("SellerOrders")
}

func (m *mockBackend) AdminOrders(context.Context) ([]domain.Order, error) {
	return m.orderList("AdminOrders")
}

func (m *mockBackend) orderList(name string) ([]domain.Order, error) {
	if err := m.record(name); err != nil {
		return nil, err
	}
	m.m.Lock()
	defer m.m.Unlock()
	return m.orders, nil
}

func (m *mockBackend) ConfirmSellerOrder(context.Context, string) error {
	return m.record("ConfirmSellerOrder")
}

func (m *mockBackend) ConfirmAdminOrder(context.Context, string) error {
	return m.record("ConfirmAdminOrder")
}

// seller

func (m *mockBackend) SellerProducts(context.Context) ([]domain.Product, error) {
	return m.listing("SellerProducts")
}

func (m *mockBackend) SellerAddProduct(_ context.Context, p api.NewProduct) (*domain.Product, error) {
	if err := m.record("SellerAddProduct"); err != nil {
		return nil, err
	}
	return &domain.Product{ID: "p9", Name: p.Title, Category: p.Category, Price: p.Price, Quantity: p.Quantity}, nil
}

func (m *mockBackend) SellerUpdateProduct(_ context.Context, productID string, u api.StockUpdate) (*domain.Product, error) {
	if err := m.record("SellerUpdateProduct"); err != nil {
		return nil, err
	}
	m.m.Lock()
	m.lastStock = u
	m.m.Unlock()
	return &domain.Product{ID: productID, Price: u.Price, Quantity: u.Quantity}, nil
}

func (m *mockBackend) SellerDeleteProduct(context.Context, string) error {
	return m.record("SellerDeleteProduct")
}

// admin

func (m *mockBackend) PendingSellers(context.Context) ([]domain.Principal, error) {
	if err := m.record("PendingSellers"); err != nil {
		return nil, err
	}
	return []domain.Principal{{ID: "s1", Role: domain.RoleSeller, ShopName: "Gem House"}}, nil
}

func (m *mockBackend) ApproveSeller(context.Context, string) (*api.Message, error) {
	if err := m.record("ApproveSeller"); err != nil {
		return nil, err
	}
	return &api.Message{Message: "Seller approved"}, nil
}

func (m *mockBackend) AdminGetUser(_ context.Context, userID string) (*domain.Principal, error) {
	if err := m.record("AdminGetUser"); err != nil {
		return nil, err
	}
	return &domain.Principal{ID: userID, Role: domain.RoleShopper}, nil
}

func (m *mockBackend) AdminUpdateUser(_ context.Context, _ string, u api.UserUpdate) (*api.Message, error) {
	if err := m.record("AdminUpdateUser"); err != nil {
		return nil, err
	}
	m.m.Lock()
	m.lastUpdate = u
	m.m.Unlock()
	return &api.Message{Message: "User updated"}, nil
}

func (m *mockBackend) AdminDeleteUser(context.Context, string) error {
	return m.record("AdminDeleteUser")
}

func (m *mockBackend) AdminAddSeller(context.Context, api.SellerAccount) (*api.Message, error) {
	if err := m.record("AdminAddSeller"); err != nil {
		return nil, err
	}
	return &api.Message{Message: "Seller added successfully!"}, nil
}

func (m *mockBackend) AdminGetProduct(_ context.Context, productID string) (*domain.Product, error) {
	if err := m.record("AdminGetProduct"); err != nil {
		return nil, err
	}
	return &domain.Product{ID: productID}, nil
}

func (m *mockBackend) AdminAddProduct(context.Context, api.NewProduct) (*api.Message, error) {
	if err := m.record("AdminAddProduct"); err != nil {
		return nil, err
	}
	return &api.Message{Message: "Product added"}, nil
}

func (m *mockBackend) AdminUpdateProduct(_ context.Context, _ string, e api.ProductEdit) (*api.Message, error) {
	if err := m.record("AdminUpdateProduct"); err != nil {
		return nil, err
	}
	m.m.Lock()
	m.lastEdit = e
	m.m.Unlock()
	return &api.Message{Message: "Product updated"}, nil
}

func (m *mockBackend) AdminDeleteProduct(context.Context, string) error {
	return m.record("AdminDeleteProduct")
}

// mockCache is an in-memory cache.CatalogCache.
type mockCache struct {
	m           sync.Mutex
	data        map[string][]domain.Product
	getErr      error
	invalidated int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]domain.Product{}}
}

func (c *mockCache) Get(_ context.Context, listing string) ([]domain.Product, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	products, ok := c.data[listing]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return products, nil
}

func (c *mockCache) Set(_ context.Context, listing string, products []domain.Product) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.data[listing] = products
	return nil
}

func (c *mockCache) Invalidate(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.data = map[string][]domain.Product{}
	c.invalidated++
	return nil
}
