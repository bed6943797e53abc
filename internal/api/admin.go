package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// UserUpdate is what the admin may change on any account.
type UserUpdate struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Role         string `json:"role,omitempty"`
}

// SellerAccount is a seller created directly by the admin, optionally
// pre-approved.
type SellerAccount struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ProfilePic    string `json:"profilePic"`
	Role          string `json:"role"`
	ShopName      string `json:"shopName"`
	ContactNumber string `json:"contactNumber"`
	Approved      bool   `json:"isApproved"`
}

// ProductEdit is the admin's full product edit. The backend names the title
// field "name" on this endpoint.
type ProductEdit struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Image       *Upload
}

func (c *Client) PendingSellers(ctx context.Context) ([]domain.Principal, error) {
	var sellers []domain.Principal
	if err := c.doJSON(ctx, http.MethodGet, "/admin/pending-sellers", nil, &sellers); err != nil {
		return nil, err
	}
	for i := range sellers {
		if sellers[i].Role == domain.RoleAnonymous {
			sellers[i].Role = domain.RoleSeller
		}
	}
	return sellers, nil
}

func (c *Client) ApproveSeller(ctx context.Context, sellerID string) (*Message, error) {
	var msg Message
	if err := c.doJSON(ctx, http.MethodPut, "/admin/approve-seller/"+url.PathEscape(sellerID), struct{}{}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) AdminGetUser(ctx context.Context, userID string) (*domain.Principal, error) {
	return c.decodePrincipal(ctx, http.MethodGet, "/admin/user/"+url.PathEscape(userID), nil, domain.RoleAnonymous)
}

func (c *Client) AdminUpdateUser(ctx context.Context, userID string, u UserUpdate) (*Message, error) {
	var msg Message
	if err := c.doJSON(ctx, http.MethodPut, "/admin/user/"+url.PathEscape(userID), u, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/user/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) AdminAddSeller(ctx context.Context, s SellerAccount) (*Message, error) {
	s.Role = domain.RoleSeller.WireName()
	var msg Message
	if err := c.doJSON(ctx, http.MethodPost, "/admin/register", s, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) AdminGetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var env productEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/admin/product/"+url.PathEscape(productID), nil, &env); err != nil {
		return nil, err
	}
	if env.Product == nil {
		return nil, &Error{Kind: KindValidation, Status: http.StatusNotFound, Method: http.MethodGet, Path: "/admin/product/" + productID, Message: "Product not found"}
	}
	return env.Product, nil
}

func (c *Client) AdminAddProduct(ctx context.Context, p NewProduct) (*Message, error) {
	var msg Message
	if err := c.doMultipart(ctx, http.MethodPost, "/admin/addproducts", p.fields(), p.Image, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) AdminUpdateProduct(ctx context.Context, productID string, e ProductEdit) (*Message, error) {
	fields := []formField{
		{"name", e.Name},
		{"description", e.Description},
		{"price", e.Price.String()},
		{"quantity", strconv.Itoa(e.Quantity)},
	}
	var msg Message
	if err := c.doMultipart(ctx, http.MethodPost, "/admin/updateproducts/"+url.PathEscape(productID), fields, e.Image, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) AdminDeleteProduct(ctx context.Context, productID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/delete/"+url.PathEscape(productID), nil, nil)
}
