package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type appFn func() *app

// readSecret falls back to one line of stdin so passwords can be piped in
// instead of sitting in shell history.
func readSecret(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt+": ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrapf(err, "read %s", strings.ToLower(prompt))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCmd(get appFn) *cobra.Command {
	var email, password string
	var seller bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a shopper, seller or the administrator",
		Long: `Signs in and stores the session for later commands.

The administrator is recognized by the configured super-admin email.
Use --seller to sign in to a seller account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			pw, err := readSecret(cmd, password, "Password")
			if err != nil {
				return err
			}

			var dest nav.Destination
			if seller {
				dest, err = a.auth.LoginSeller(cmd.Context(), email, pw)
			} else {
				dest, err = a.auth.Login(cmd.Context(), email, pw)
			}
			if err != nil {
				return err
			}
			a.rememberSession()

			p := a.store.Principal()
			fmt.Fprintf(a.out, "Signed in as %s (%s), home %s\n", p.DisplayName(), p.Role, dest.Path)
			if p.CanShop() {
				s := a.store.CartSummary()
				fmt.Fprintf(a.out, "Cart: %d items, %s\n", s.TotalItems, domain.FormatAmount(s.TotalAmount))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (read from stdin when empty)")
	cmd.Flags().BoolVar(&seller, "seller", false, "sign in to a seller account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(get appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			err := a.auth.Logout(cmd.Context())
			a.rememberSession()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func whoamiCmd(get appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p := a.store.Principal()
			printPrincipal(a.out, p)
			if p != nil {
				fmt.Fprintf(a.out, "  home: %s\n", a.router.IdentityClick(p).Path)
			}
			return nil
		},
	}
}

func registerCmd(get appFn) *cobra.Command {
	var form service.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a shopper account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var err error
			if form.Password, err = readSecret(cmd, form.Password, "Password"); err != nil {
				return err
			}
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}

			dest, err := a.auth.RegisterShopper(cmd.Context(), form)
			if err != nil {
				return err
			}
			a.rememberSession()
			fmt.Fprintf(a.out, "Welcome, %s. Home %s\n", a.store.Principal().DisplayName(), dest.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email")
	cmd.Flags().StringVar(&form.Password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&form.ProfilePic, "profile-pic", "", "profile picture URL")
	return cmd
}

func registerSellerCmd(get appFn) *cobra.Command {
	var form service.SellerRegisterForm

	cmd := &cobra.Command{
		Use:   "register-seller",
		Short: "Apply for a seller account",
		Long:  "Submits a seller application. The account can sign in once the administrator approves it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var err error
			if form.Password, err = readSecret(cmd, form.Password, "Password"); err != nil {
				return err
			}
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}

			msg, err := a.auth.RegisterSeller(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Application submitted, waiting for approval"))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email")
	cmd.Flags().StringVar(&form.Password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&form.ShopName, "shop-name", "", "shop name")
	cmd.Flags().StringVar(&form.ContactNumber, "contact-number", "", "contact number")
	cmd.Flags().StringVar(&form.ProfilePic, "profile-pic", "", "profile picture URL")
	return cmd
}

func resetPasswordCmd(get appFn) *cobra.Command {
	var form service.ResetPasswordForm
	var seller bool

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a shopper or seller password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			form.Role = domain.RoleShopper
			if seller {
				form.Role = domain.RoleSeller
			}
			var err error
			if form.NewPassword, err = readSecret(cmd, form.NewPassword, "New password"); err != nil {
				return err
			}
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.NewPassword
			}

			msg, err := a.auth.ResetPassword(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Password updated"))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.MobileNumber, "mobile", "", "registered mobile number (sellers)")
	cmd.Flags().StringVar(&form.NewPassword, "new-password", "", "new password (read from stdin when empty)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "confirmation (defaults to --new-password)")
	cmd.Flags().BoolVar(&seller, "seller", false, "reset a seller account")
	return cmd
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
