package service

import (
	"context"
	"strings"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultSuperAdminEmail = "superadmin@example.com"

type AuthClient interface {
	Login(ctx context.Context, role domain.Role, creds api.Credentials) (*domain.Principal, error)
	Logout(ctx context.Context, role domain.Role) error
	Profile(ctx context.Context, role domain.Role) (*domain.Principal, error)
	RegisterShopper(ctx context.Context, r api.ShopperRegistration) (*api.Message, error)
	RegisterSeller(ctx context.Context, r api.SellerRegistration) (*api.Message, error)
	ResetPassword(ctx context.Context, r api.PasswordReset) (*api.Message, error)
	ResetSellerPassword(ctx context.Context, r api.SellerPasswordReset) (*api.Message, error)
}

type CartLoader interface {
	Load(ctx context.Context) ([]domain.CartLine, error)
}

// CookieClearer forgets the persisted backend session.
type CookieClearer interface {
	Clear() error
}

type AuthOptions struct {
	SuperAdminEmail string
	Cookies         CookieClearer
	Logger          *zap.Logger
}

type AuthService struct {
	client     AuthClient
	store      *session.Store
	cart       CartLoader
	router     *nav.Router
	navigator  nav.Navigator
	superAdmin string
	cookies    CookieClearer
	logger     *zap.Logger
}

func NewAuthService(client AuthClient, store *session.Store, cart CartLoader, router *nav.Router, navigator nav.Navigator, opts AuthOptions) *AuthService {
	superAdmin := normalizeEmail(opts.SuperAdminEmail)
	if superAdmin == "" {
		superAdmin = DefaultSuperAdminEmail
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		client:     client,
		store:      store,
		cart:       cart,
		router:     router,
		navigator:  navigator,
		superAdmin: superAdmin,
		cookies:    opts.Cookies,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginRole picks the login endpoint for email: the super-admin address
// logs in as admin, everyone else as a shopper.
func (s *AuthService) LoginRole(email string) domain.Role {
	if normalizeEmail(email) == s.superAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleShopper
}

// Login signs in a shopper or the admin and lands on their dashboard.
func (s *AuthService) Login(ctx context.Context, email, password string) (nav.Destination, error) {
	return s.login(ctx, s.LoginRole(email), email, password)
}

func (s *AuthService) LoginSeller(ctx context.Context, email, password string) (nav.Destination, error) {
	return s.login(ctx, domain.RoleSeller, email, password)
}

func (s *AuthService) login(ctx context.Context, role domain.Role, email, password string) (nav.Destination, error) {
	form := LoginForm{Email: strings.TrimSpace(email), Password: password}
	if err := validateForm(form); err != nil {
		return nav.Destination{}, err
	}

	p, err := s.client.Login(ctx, role, api.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		return nav.Destination{}, err
	}
	return s.signedIn(ctx, p), nil
}

// signedIn records p, loads the shopper cart and navigates to the landing
// page. A cart failure does not undo the login.
func (s *AuthService) signedIn(ctx context.Context, p *domain.Principal) nav.Destination {
	s.store.SetPrincipal(p)
	s.logger.Info("signed in", zap.String("user_id", p.ID), zap.Stringer("role", p.Role))

	if p.CanShop() && s.cart != nil {
		if _, err := s.cart.Load(ctx); err != nil {
			s.logger.Warn("cart load after login failed", zap.Error(err))
		}
	}

	dest := s.router.LoginDestination(p.Role)
	s.navigator.Navigate(dest)
	return dest
}

// Logout ends the session on the backend and always clears it locally.
func (s *AuthService) Logout(ctx context.Context) error {
	role := s.store.Role()
	var err error
	if role != domain.RoleAnonymous {
		err = s.client.Logout(ctx, role)
		if api.IsUnauthorized(err) {
			err = nil
		}
	}
	if s.cookies != nil {
		if cerr := s.cookies.Clear(); cerr != nil {
			s.logger.Warn("clear session cookies failed", zap.Error(cerr))
		}
	}
	s.store.ClearPrincipal()
	if err != nil {
		return errors.Wrap(err, "logout")
	}
	return nil
}

// RegisterShopper creates the account, signs in with it and refreshes the
// profile so the store holds the backend's view of the new user.
func (s *AuthService) RegisterShopper(ctx context.Context, form RegisterForm) (nav.Destination, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return nav.Destination{}, err
	}

	_, err := s.client.RegisterShopper(ctx, api.ShopperRegistration{
		Name:       form.Name,
		Email:      form.Email,
		Password:   form.Password,
		ProfilePic: form.ProfilePic,
	})
	if err != nil {
		return nav.Destination{}, err
	}

	p, err := s.client.Login(ctx, domain.RoleShopper, api.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		return nav.Destination{}, errors.Wrap(err, "login after registration")
	}
	if fresh, err := s.client.Profile(ctx, domain.RoleShopper); err == nil {
		p = fresh
	} else {
		s.logger.Warn("profile refresh after registration failed", zap.Error(err))
	}
	return s.signedIn(ctx, p), nil
}

// RegisterSeller submits a seller application. Sellers can log in only
// after the admin approves them, so no session is started.
func (s *AuthService) RegisterSeller(ctx context.Context, form SellerRegisterForm) (string, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return "", err
	}

	msg, err := s.client.RegisterSeller(ctx, api.SellerRegistration{
		Name:          form.Name,
		Email:         form.Email,
		Password:      form.Password,
		ShopName:      form.ShopName,
		ContactNumber: form.ContactNumber,
		ProfilePic:    form.ProfilePic,
	})
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, form ResetPasswordForm) (string, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return "", err
	}

	var (
		msg *api.Message
		err error
	)
	if form.Role == domain.RoleSeller {
		msg, err = s.client.ResetSellerPassword(ctx, api.SellerPasswordReset{
			Email:           form.Email,
			MobileNumber:    form.MobileNumber,
			NewPassword:     form.NewPassword,
			ConfirmPassword: form.ConfirmPassword,
		})
	} else {
		msg, err = s.client.ResetPassword(ctx, api.PasswordReset{
			Email:           form.Email,
			NewPassword:     form.NewPassword,
			ConfirmPassword: form.ConfirmPassword,
			Role:            domain.RoleShopper.WireName(),
		})
	}
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}
