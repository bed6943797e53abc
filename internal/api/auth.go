package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/pkg/errors"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ShopperRegistration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfilePic string `json:"profilePic"`
}

type SellerRegistration struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ShopName      string `json:"shopName"`
	ContactNumber string `json:"contactNumber"`
	ProfilePic    string `json:"profilePic"`
}

type PasswordReset struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

type SellerPasswordReset struct {
	Email           string `json:"email"`
	MobileNumber    string `json:"mobileNumber"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ProfileUpdate struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password,omitempty"`
	ProfilePic string `json:"profilePic"`
}

type SellerProfileUpdate struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ShopName      string `json:"shopName"`
	ContactNumber string `json:"contactNumber"`
	ProfilePic    string `json:"profilePic"`
}

// principalEnvelope accepts every key the backend has been seen to wrap an
// identity in. The first non-empty one wins, in field order.
type principalEnvelope struct {
	User   *domain.Principal `json:"user"`
	Seller *domain.Principal `json:"seller"`
	Admin  *domain.Principal `json:"admin"`
	Data   *domain.Principal `json:"data"`
}

func (e principalEnvelope) principal() *domain.Principal {
	for _, p := range []*domain.Principal{e.User, e.Seller, e.Admin, e.Data} {
		if p != nil {
			return p
		}
	}
	return nil
}

// decodePrincipalBody unwraps the identity. The seller profile endpoint
// answers with the bare object, so an unwrapped body carrying an id or an
// email is accepted too.
func decodePrincipalBody(raw []byte) (*domain.Principal, error) {
	var env principalEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "decode principal")
	}
	if p := env.principal(); p != nil {
		return p, nil
	}
	var bare domain.Principal
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, errors.Wrap(err, "decode principal")
	}
	if bare.ID == "" && bare.Email == "" {
		return nil, errors.New("response carries no user data")
	}
	return &bare, nil
}

// decodePrincipal fills in role when the backend left it out.
func (c *Client) decodePrincipal(ctx context.Context, method, path string, body any, role domain.Role) (*domain.Principal, error) {
	raw, err := c.sendJSON(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	p, err := decodePrincipalBody(raw)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Method: method, Path: path, Err: err}
	}
	if p.Role == domain.RoleAnonymous {
		p.Role = role
	}
	return p, nil
}

func rolePath(role domain.Role) (string, error) {
	switch role {
	case domain.RoleShopper:
		return "/user", nil
	case domain.RoleSeller:
		return "/seller", nil
	case domain.RoleAdmin:
		return "/admin", nil
	default:
		return "", errors.Errorf("no endpoint for role %s", role)
	}
}

// Profile fetches the principal of the current session for the given role.
func (c *Client) Profile(ctx context.Context, role domain.Role) (*domain.Principal, error) {
	prefix, err := rolePath(role)
	if err != nil {
		return nil, err
	}
	return c.decodePrincipal(ctx, http.MethodGet, prefix+"/profile", nil, role)
}

// LoginPath is the endpoint a login for role is posted to.
func LoginPath(role domain.Role) (string, error) {
	prefix, err := rolePath(role)
	if err != nil {
		return "", err
	}
	return prefix + "/login", nil
}

func (c *Client) Login(ctx context.Context, role domain.Role, creds Credentials) (*domain.Principal, error) {
	path, err := LoginPath(role)
	if err != nil {
		return nil, err
	}
	return c.decodePrincipal(ctx, http.MethodPost, path, creds, role)
}

// Logout ends the backend session. Shoppers log out with GET, the other
// roles with POST.
func (c *Client) Logout(ctx context.Context, role domain.Role) error {
	prefix, err := rolePath(role)
	if err != nil {
		return err
	}
	if role == domain.RoleShopper {
		return c.doJSON(ctx, http.MethodGet, prefix+"/logout", nil, nil)
	}
	return c.doJSON(ctx, http.MethodPost, prefix+"/logout", struct{}{}, nil)
}

func (c *Client) RegisterShopper(ctx context.Context, r ShopperRegistration) (*Message, error) {
	var msg Message
	if err := c.doJSON(ctx, http.MethodPost, "/user/register", r, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) RegisterSeller(ctx context.Context, r SellerRegistration) (*Message, error) {
	var msg Message
	if err := c.doJSON(ctx, http.MethodPost, "/seller/register", r, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) ResetPassword(ctx context.Context, r PasswordReset) (*Message, error) {
	if r.Role == "" {
		r.Role = domain.RoleShopper.WireName()
	}
	var msg Message
	if err := c.doJSON(ctx, http.MethodPost, "/user/reset-password", r, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) ResetSellerPassword(ctx context.Context, r SellerPasswordReset) (*Message, error) {
	var msg Message
	if err := c.doJSON(ctx, http.MethodPost, "/seller/reset-password", r, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) (*domain.Principal, error) {
	return c.decodePrincipal(ctx, http.MethodPut, "/user/update", u, domain.RoleShopper)
}

func (c *Client) UpdateSellerProfile(ctx context.Context, u SellerProfileUpdate) (*Message, error) {
	var msg Message
	if err := c.doJSON(ctx, http.MethodPut, "/seller/update-profile", u, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) DeleteAccount(ctx context.Context, role domain.Role) error {
	switch role {
	case domain.RoleShopper:
		return c.doJSON(ctx, http.MethodDelete, "/user/delete", nil, nil)
	case domain.RoleSeller:
		return c.doJSON(ctx, http.MethodDelete, "/seller/delete-account", nil, nil)
	default:
		return errors.Errorf("account deletion is not available for role %s", role)
	}
}
