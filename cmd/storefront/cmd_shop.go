package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fjod/nayra_storefront/internal/domain"
	callback "github.com/fjod/nayra_storefront/internal/http"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/tui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func browseCmd(get appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [most-loved|new-arrivals|Ring|Necklace|Bangles|Pendant]",
		Short: "List a collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			which := "most-loved"
			if len(args) == 1 {
				which = args[0]
			}

			var (
				products []domain.Product
				err      error
			)
			switch strings.ToLower(which) {
			case "most-loved":
				products, err = a.catalog.MostLoved(cmd.Context())
			case "new-arrivals":
				products, err = a.catalog.NewArrivals(cmd.Context())
			default:
				products, err = a.catalog.Collection(cmd.Context(), which)
			}
			if err != nil {
				return err
			}
			printProducts(a.out, products)
			return nil
		},
	}
}

func searchCmd(get appFn) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search products by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			products, err := a.catalog.Search(cmd.Context(), category)
			if err != nil {
				return err
			}
			printProducts(a.out, products)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category to search")
	return cmd
}

func reviewsCmd(get appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write product reviews",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <product-id>",
		Short: "List the reviews of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			reviews, err := a.reviews.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReviews(a.out, reviews)
			return nil
		},
	})

	var rating int
	var comment string
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			msg, err := a.reviews.Add(cmd.Context(), args[0], rating, comment)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, orDefault(msg, "Review added"))
			return nil
		},
	}
	add.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	add.Flags().StringVar(&comment, "comment", "", "review text")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.reviews.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Review deleted")
			return nil
		},
	})
	return cmd
}

func cartCmd(get appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the shopping cart",
	}

	// show goes through the cart click so sellers and the admin get the
	// same notice as in the shop.
	show := func(cmd *cobra.Command, args []string) error {
		a := get()
		out := a.router.CartClick(a.store.Principal())
		if !out.Navigates() {
			fmt.Fprintln(a.out, out.Notice)
			return nil
		}
		a.history.Navigate(*out.Destination)
		if *out.Destination == nav.Login {
			return errors.New("please log in to see your cart")
		}
		lines, err := a.cart.Load(cmd.Context())
		if err != nil {
			return err
		}
		printCart(a.out, lines, domain.Summarize(lines))
		return nil
	}
	cmd.RunE = show

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cart with its totals",
		Args:  cobra.NoArgs,
		RunE:  show,
	})

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			lines, err := a.cart.Add(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			printCart(a.out, lines, domain.Summarize(lines))
			return nil
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "n", 1, "quantity to add")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Errorf("quantity must be a number: %q", args[1])
			}
			lines, err := a.cart.Update(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			printCart(a.out, lines, domain.Summarize(lines))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			lines, err := a.cart.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCart(a.out, lines, domain.Summarize(lines))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.cart.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Cart cleared")
			return nil
		},
	})
	return cmd
}

// notifyingCompleter reports the first completed order so checkout --wait
// can stop the callback server.
type notifyingCompleter struct {
	next callback.OrderCompleter
	done chan *domain.Order
}

func (n notifyingCompleter) Complete(ctx context.Context, paymentID string) (*domain.Order, error) {
	order, err := n.next.Complete(ctx, paymentID)
	if err == nil {
		select {
		case n.done <- order:
		default:
		}
	}
	return order, err
}

func checkoutCmd(get appFn) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Pay for the cart on the hosted checkout page",
		Long: `Opens a payment session for the current cart and prints the page to pay on.

With --wait the payment callback server runs until the checkout redirects
back with a completed payment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if a.store.Principal().CanShop() {
				if _, err := a.cart.Load(cmd.Context()); err != nil {
					return err
				}
			}
			sess, err := a.checkout.Begin(cmd.Context())
			if err != nil {
				return err
			}
			s := a.store.CartSummary()
			fmt.Fprintf(a.out, "Total %s for %d items\n", domain.FormatAmount(s.TotalAmount), s.TotalItems)
			fmt.Fprintf(a.out, "Pay at: %s\n", sess.RedirectURL)
			if !wait {
				return nil
			}

			completer := notifyingCompleter{next: a.checkout, done: make(chan *domain.Order, 1)}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			srv := callback.NewServer(callback.Config{Addr: a.cfg.Payment.CallbackAddr}, completer, a.logger)
			errCh := make(chan error, 1)
			ready := make(chan string, 1)
			go func() { errCh <- srv.Run(ctx, ready) }()

			select {
			case addr := <-ready:
				fmt.Fprintf(a.out, "Waiting for payment on http://%s/payment-success\n", addr)
			case err := <-errCh:
				return err
			}

			select {
			case order := <-completer.done:
				fmt.Fprintf(a.out, "Payment received, order %s\n", orDefault(order.ID, order.PaymentID))
			case err := <-errCh:
				return err
			}
			cancel()
			return <-errCh
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "serve the payment callback until the order is recorded")
	return cmd
}

func ordersCmd(get appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List the orders of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var (
				orders []domain.Order
				err    error
			)
			switch a.store.Role() {
			case domain.RoleSeller:
				orders, err = a.orders.SellerOrders(cmd.Context())
			case domain.RoleAdmin:
				orders, err = a.orders.AdminOrders(cmd.Context())
			default:
				orders, err = a.account.Orders(cmd.Context())
			}
			if err != nil {
				return err
			}
			printOrders(a.out, orders)
			return nil
		},
	}
}

func serveCallbackCmd(get appFn) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-callback",
		Short: "Serve the pages the hosted checkout returns to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if addr == "" {
				addr = a.cfg.Payment.CallbackAddr
			}
			srv := callback.NewServer(callback.Config{Addr: addr}, a.checkout, a.logger)
			return srv.Run(cmd.Context(), nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func themeCmd(get appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the light/dark theme",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			fmt.Fprintln(a.out, a.theme.Mode())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			mode, err := a.theme.Toggle()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, mode)
			return nil
		},
	})
	return cmd
}

func shopCmd(get appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Open the interactive terminal shop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			styles := tui.NewThemedStyles()
			a.theme.Register(styles)

			model := tui.New(tui.Deps{
				Catalog:   a.catalog,
				Cart:      a.cart,
				Store:     a.store,
				Router:    a.router,
				Navigator: a.history,
				Theme:     a.theme,
				Styles:    styles,
				Timeout:   a.cfg.API.Timeout,
			})
			_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
