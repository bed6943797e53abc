package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/service"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// openUpload opens path for a multipart image field. An empty path means no
// image. The caller closes the returned file.
func openUpload(path string) (*api.Upload, *os.File, error) {
	if path == "" {
		return nil, nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open image")
	}
	return &api.Upload{Filename: filepath.Base(path), Content: f}, f, nil
}

func productFormFlags(cmd *cobra.Command, form *service.ProductForm, price *string, image *string) {
	cmd.Flags().StringVar(&form.Title, "title", "", "product title")
	cmd.Flags().StringVar(&form.Description, "description", "", "product description")
	cmd.Flags().StringVar(&form.Category, "category", "", "Ring, Necklace, Bangles or Pendant")
	cmd.Flags().StringVar(price, "price", "", "price in rupees")
	cmd.Flags().IntVar(&form.Quantity, "quantity", 0, "units in stock")
	cmd.Flags().StringVar(image, "image", "", "path to the product image")
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Errorf("price must be a number: %q", s)
	}
	return d, nil
}

func sellerCmd(get appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seller",
		Short: "Seller dashboard",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "products",
		Short: "List your products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			products, err := a.seller.MyProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(a.out, products)
			return nil
		},
	})

	var form service.ProductForm
	var price, image string
	add := &cobra.Command{
		Use:   "add-product",
		Short: "List a new product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var err error
			if form.Price, err = parsePrice(price); err != nil {
				return err
			}
			upload, f, err := openUpload(image)
			if err != nil {
				return err
			}
			if f != nil {
				defer f.Close()
			}
			p, err := a.seller.AddProduct(cmd.Context(), form, upload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Product added")
			printProducts(a.out, nonNilProducts(p))
			return nil
		},
	}
	productFormFlags(add, &form, &price, &image)
	cmd.AddCommand(add)

	var newPrice string
	var newQty int
	update := &cobra.Command{
		Use:   "update-product <product-id>",
		Short: "Change the price and stock of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			d, err := parsePrice(newPrice)
			if err != nil {
				return err
			}
			p, err := a.seller.UpdateProduct(cmd.Context(), args[0], d, newQty)
			if err != nil {
				return err
			}
			printProducts(a.out, nonNilProducts(p))
			return nil
		},
	}
	update.Flags().StringVar(&newPrice, "price", "", "new price in rupees")
	update.Flags().IntVar(&newQty, "quantity", 0, "new stock")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-product <product-id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.seller.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Product deleted")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "orders",
		Short: "List orders for your products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			orders, err := a.orders.SellerOrders(cmd.Context())
			if err != nil {
				return err
			}
			printOrders(a.out, orders)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm-order <order-id>",
		Short: "Confirm an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.orders.ConfirmSellerOrder(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Order confirmed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "profile",
		Short: "Show your seller profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.seller.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printPrincipal(a.out, p)
			return nil
		},
	})

	var profile service.SellerProfileForm
	updateProfile := &cobra.Command{
		Use:   "update-profile",
		Short: "Change your seller profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			msg, err := a.seller.UpdateProfile(cmd.Context(), profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Profile updated"))
			return nil
		},
	}
	updateProfile.Flags().StringVar(&profile.Name, "name", "", "full name")
	updateProfile.Flags().StringVar(&profile.Email, "email", "", "email")
	updateProfile.Flags().StringVar(&profile.ShopName, "shop-name", "", "shop name")
	updateProfile.Flags().StringVar(&profile.ContactNumber, "contact-number", "", "contact number")
	updateProfile.Flags().StringVar(&profile.ProfilePic, "profile-pic", "", "profile picture URL")
	cmd.AddCommand(updateProfile)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-account",
		Short: "Close your seller account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.seller.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			a.rememberSession()
			fmt.Fprintln(a.out, "Account deleted")
			return nil
		},
	})
	return cmd
}

func accountCmd(get appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your shopper account",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.account.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printPrincipal(a.out, p)
			return nil
		},
	})

	var form service.ProfileForm
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name, email or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.account.UpdateProfile(cmd.Context(), form)
			if err != nil {
				return err
			}
			printPrincipal(a.out, p)
			return nil
		},
	}
	update.Flags().StringVar(&form.Name, "name", "", "full name")
	update.Flags().StringVar(&form.Email, "email", "", "email")
	update.Flags().StringVar(&form.Password, "password", "", "new password, unchanged when empty")
	update.Flags().StringVar(&form.ProfilePic, "profile-pic", "", "profile picture URL")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.account.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			a.rememberSession()
			fmt.Fprintln(a.out, "Account deleted")
			return nil
		},
	})
	return cmd
}
