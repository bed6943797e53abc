package service

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategory(fl.Field().String())
		return err == nil
	})
	return v
}

// FormError lists the fields that failed validation, keyed by field name.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return strings.Join(msgs, "; ")
}

func (e *FormError) Unwrap() error {
	return ErrInvalidForm
}

func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &kindError{kind: ErrInvalidForm, cause: err}
	}

	fe := &FormError{Fields: make(map[string]string, len(verrs))}
	for _, fieldErr := range verrs {
		fe.Fields[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return fe
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "eqfield":
		return "Passwords do not match"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "category":
		return fmt.Sprintf("%s must be one of Ring, Necklace, Bangles, Pendant", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type RegisterForm struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	ProfilePic      string
}

type SellerRegisterForm struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	ShopName        string `validate:"required"`
	ContactNumber   string `validate:"required"`
	ProfilePic      string
}

// ResetPasswordForm covers both reset flows. Sellers prove ownership with
// their mobile number.
type ResetPasswordForm struct {
	Role            domain.Role
	Email           string `validate:"required,email"`
	MobileNumber    string `validate:"required_if=Role seller"`
	NewPassword     string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

type ReviewForm struct {
	ProductID string `validate:"required"`
	Rating    int    `validate:"min=1,max=5"`
	Comment   string `validate:"required"`
}

type QuantityForm struct {
	ProductID string `validate:"required"`
	Quantity  int    `validate:"min=1"`
}

type ProductForm struct {
	Title       string          `validate:"required"`
	Description string          `validate:"required"`
	Category    string          `validate:"required,category"`
	Price       decimal.Decimal `validate:"gt=0"`
	Quantity    int             `validate:"min=0"`
}

type StockForm struct {
	Price    decimal.Decimal `validate:"gt=0"`
	Quantity int             `validate:"min=0"`
}

type ProfileForm struct {
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Password   string `validate:"omitempty,min=6"`
	ProfilePic string
}

type SellerProfileForm struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	ShopName      string `validate:"required"`
	ContactNumber string `validate:"required"`
	ProfilePic    string
}

type SellerAccountForm struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	Password      string `validate:"required,min=6"`
	ShopName      string `validate:"required"`
	ContactNumber string `validate:"required"`
	ProfilePic    string
	Approved      bool
}

type ProductEditForm struct {
	Name        string `validate:"required"`
	Description string
	Price       decimal.Decimal `validate:"gt=0"`
	Quantity    int             `validate:"min=0"`
}
