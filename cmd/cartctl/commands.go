package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-cart/internal/cartstore"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print a visitor's cart",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, s.Close()) }()

			t := newTerminal(a.in, a.out, false)
			m, err := s.manager(ctx, a.visitorID, t)
			if err != nil {
				return err
			}
			printView(a.out, m.View())
			return nil
		},
	}
}

func clearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty a visitor's cart",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, s.Close()) }()

			t := newTerminal(a.in, a.out, yes)
			m, err := s.manager(ctx, a.visitorID, t)
			if err != nil {
				return err
			}
			if m.Count() == 0 {
				fmt.Fprintln(a.out, "cart already empty")
				return nil
			}
			if !m.Clear(ctx) {
				fmt.Fprintln(a.out, "cart left unchanged")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "clear without asking for confirmation")
	return cmd
}

func checkoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Build the WhatsApp order link for a visitor's cart and empty it",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, s.Close()) }()

			t := newTerminal(a.in, a.out, false)
			m, err := s.manager(ctx, a.visitorID, t)
			if err != nil {
				return err
			}
			_, err = m.Checkout(ctx)
			return err
		},
	}
}

func purgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired cart slots (sql backend only)",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, s.Close()) }()

			store, ok := s.resources.Store.(*cartstore.SQLStore)
			if !ok {
				return errors.New("purge is only available for the sql backend")
			}
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purging expired slots")
			}
			fmt.Fprintf(a.out, "purged %d expired cart(s)\n", n)
			return nil
		},
	}
}
