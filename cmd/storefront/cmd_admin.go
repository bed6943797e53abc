package main

import (
	"fmt"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/service"
	"github.com/spf13/cobra"
)

func adminCmd(get appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator dashboard",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "profile",
		Short: "Show the administrator profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.admin.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printPrincipal(a.out, p)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pending-sellers",
		Short: "List seller applications waiting for approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			sellers, err := a.admin.PendingSellers(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(a.out, sellers)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "approve-seller <seller-id>",
		Short: "Approve a seller application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			msg, err := a.admin.ApproveSeller(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Seller approved"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "user <user-id>",
		Short: "Show a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.admin.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPrincipal(a.out, p)
			return nil
		},
	})

	var userUpdate api.UserUpdate
	updateUser := &cobra.Command{
		Use:   "update-user <user-id>",
		Short: "Change a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			msg, err := a.admin.UpdateUser(cmd.Context(), args[0], userUpdate)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "User updated"))
			return nil
		},
	}
	updateUser.Flags().StringVar(&userUpdate.Name, "name", "", "full name")
	updateUser.Flags().StringVar(&userUpdate.Email, "email", "", "email")
	updateUser.Flags().StringVar(&userUpdate.MobileNumber, "mobile", "", "mobile number")
	updateUser.Flags().StringVar(&userUpdate.Role, "role", "", "shopper, seller or admin")
	cmd.AddCommand(updateUser)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.admin.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "User deleted")
			return nil
		},
	})

	var seller service.SellerAccountForm
	addSeller := &cobra.Command{
		Use:   "add-seller",
		Short: "Create a seller account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var err error
			if seller.Password, err = readSecret(cmd, seller.Password, "Password"); err != nil {
				return err
			}
			msg, err := a.admin.AddSeller(cmd.Context(), seller)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Seller added"))
			return nil
		},
	}
	addSeller.Flags().StringVar(&seller.Name, "name", "", "full name")
	addSeller.Flags().StringVar(&seller.Email, "email", "", "email")
	addSeller.Flags().StringVar(&seller.Password, "password", "", "password (read from stdin when empty)")
	addSeller.Flags().StringVar(&seller.ShopName, "shop-name", "", "shop name")
	addSeller.Flags().StringVar(&seller.ContactNumber, "contact-number", "", "contact number")
	addSeller.Flags().StringVar(&seller.ProfilePic, "profile-pic", "", "profile picture URL")
	addSeller.Flags().BoolVar(&seller.Approved, "approved", true, "approve the account right away")
	cmd.AddCommand(addSeller)

	cmd.AddCommand(&cobra.Command{
		Use:   "product <product-id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.admin.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProducts(a.out, nonNilProducts(p))
			return nil
		},
	})

	var product service.ProductForm
	var price, image string
	addProduct := &cobra.Command{
		Use:   "add-product",
		Short: "Add a product to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var err error
			if product.Price, err = parsePrice(price); err != nil {
				return err
			}
			upload, f, err := openUpload(image)
			if err != nil {
				return err
			}
			if f != nil {
				defer f.Close()
			}
			msg, err := a.admin.AddProduct(cmd.Context(), product, upload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Product added"))
			return nil
		},
	}
	productFormFlags(addProduct, &product, &price, &image)
	cmd.AddCommand(addProduct)

	var edit service.ProductEditForm
	var editPrice, editImage string
	updateProduct := &cobra.Command{
		Use:   "update-product <product-id>",
		Short: "Edit a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var err error
			if edit.Price, err = parsePrice(editPrice); err != nil {
				return err
			}
			upload, f, err := openUpload(editImage)
			if err != nil {
				return err
			}
			if f != nil {
				defer f.Close()
			}
			msg, err := a.admin.UpdateProduct(cmd.Context(), args[0], edit, upload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Product updated"))
			return nil
		},
	}
	updateProduct.Flags().StringVar(&edit.Name, "name", "", "product name")
	updateProduct.Flags().StringVar(&edit.Description, "description", "", "product description")
	updateProduct.Flags().StringVar(&editPrice, "price", "", "price in rupees")
	updateProduct.Flags().IntVar(&edit.Quantity, "quantity", 0, "units in stock")
	updateProduct.Flags().StringVar(&editImage, "image", "", "path to a new product image")
	cmd.AddCommand(updateProduct)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-product <product-id>",
		Short: "Remove a product from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.admin.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Product deleted")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "orders",
		Short: "List all orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			orders, err := a.orders.AdminOrders(cmd.Context())
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
			if err := a.orders.ConfirmAdminOrder(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Order confirmed")
			return nil
		},
	})
	return cmd
}
