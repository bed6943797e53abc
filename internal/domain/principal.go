package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAnonymous Role = ""
	RoleShopper   Role = "shopper"
	RoleSeller    Role = "seller"
	RoleAdmin     Role = "admin"
)

// ParseRole maps the backend role names onto client roles. The backend
// calls shoppers "user" and the admin "superadmin".
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "shopper":
		return RoleShopper, nil
	case "seller":
		return RoleSeller, nil
	case "superadmin", "admin":
		return RoleAdmin, nil
	default:
		return RoleAnonymous, fmt.Errorf("unknown role %q", s)
	}
}

// WireName is the role name the backend expects in request bodies.
func (r Role) WireName() string {
	switch r {
	case RoleShopper:
		return "user"
	case RoleAdmin:
		return "superadmin"
	default:
		return string(r)
	}
}

func (r Role) String() string {
	if r == RoleAnonymous {
		return "anonymous"
	}
	return string(r)
}

func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RoleAnonymous
		return nil
	}
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.WireName()), nil
}

type Principal struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	Approved      bool   `json:"isApproved"`
	ProfilePic    string `json:"profilePic,omitempty"`
	ShopName      string `json:"shopName,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// CanShop reports whether the principal may own a cart.
func (p *Principal) CanShop() bool {
	return p != nil && p.Role == RoleShopper
}

// DisplayName prefers the name, then the shop name, then the email.
func (p *Principal) DisplayName() string {
	switch {
	case p == nil:
		return ""
	case p.Name != "":
		return p.Name
	case p.ShopName != "":
		return p.ShopName
	default:
		return p.Email
	}
}
