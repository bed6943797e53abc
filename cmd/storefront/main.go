package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/nayra_storefront/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

// newRootCmd builds the command tree. The app is created lazily in
// PersistentPreRunE so --help never touches the network or disk.
func newRootCmd(out io.Writer) *cobra.Command {
	flags := &rootFlags{}
	var a *app

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Nayra jewelry storefront client",
		Long: `storefront talks to the Nayra backend on behalf of shoppers, sellers
and the administrator.

Run "storefront shop" for the interactive terminal shop.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
				return nil
			}
			var err error
			a, err = newApp(cmd.Context(), flags, out)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ./config.yaml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	get := func() *app { return a }
	root.AddCommand(
		loginCmd(get),
		logoutCmd(get),
		whoamiCmd(get),
		registerCmd(get),
		registerSellerCmd(get),
		resetPasswordCmd(get),
		browseCmd(get),
		searchCmd(get),
		reviewsCmd(get),
		cartCmd(get),
		checkoutCmd(get),
		ordersCmd(get),
		serveCallbackCmd(get),
		themeCmd(get),
		shopCmd(get),
		sellerCmd(get),
		adminCmd(get),
		accountCmd(get),
	)
	forgetRejectedSession(root, get)
	return root
}

// forgetRejectedSession wraps every command so a session the backend
// rejected mid-command is not restored on the next run.
func forgetRejectedSession(cmd *cobra.Command, get appFn) {
	for _, sub := range cmd.Commands() {
		forgetRejectedSession(sub, get)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		err := run(c, args)
		if a := get(); a != nil && errors.Is(err, service.ErrLoginRequired) {
			a.forgetSession()
		}
		return err
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}
