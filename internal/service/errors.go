package service

import (
	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/pkg/errors"
)

var (
	ErrLoginRequired  = errors.New("please log in to continue")
	ErrShopperOnly    = errors.New("cart is available for shoppers only")
	ErrEmptyCart      = errors.New("cart is empty, nothing to checkout")
	ErrInvalidForm    = errors.New("invalid form")
	ErrRoleNotAllowed = errors.New("not available for your role")
)

// loginRequired wraps a rejected-session error so callers can match both
// ErrLoginRequired and the underlying *api.Error.
func loginRequired(err error) error {
	if err == nil {
		return ErrLoginRequired
	}
	return &kindError{kind: ErrLoginRequired, cause: err}
}

// kindError tags cause with one of the sentinels above. errors.Is matches
// both the sentinel and anything in the cause chain.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.cause }

// Message is the text to show the user for err.
func Message(err error) string {
	var fe *FormError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.Error()
	case errors.Is(err, ErrLoginRequired):
		return "Please log in to continue"
	case errors.Is(err, ErrShopperOnly):
		return "Cart is available for shoppers only"
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty"
	case errors.Is(err, ErrRoleNotAllowed):
		return "This action is not available for your account"
	}
	switch api.KindOf(err) {
	case api.KindTransport:
		return api.UserMessage(err, "Could not reach the server")
	case api.KindDecode:
		return "Unexpected response from the server"
	default:
		return api.UserMessage(err, "Something went wrong")
	}
}
