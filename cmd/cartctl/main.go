package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-cart/internal/cartstore"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	a := &app{
		in:  os.Stdin,
		out: os.Stdout,
		setup: func(ctx context.Context) (*config.Config, *logger.Logger, *cartstore.Resources, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, nil, nil, err
			}
			// keep stdout for the command's own output
			opts := logger.FromConfig("cartctl", cfg.App)
			opts.Output = os.Stderr
			logg := logger.New(opts)
			res, err := cartstore.Open(ctx, cfg, logg)
			if err != nil {
				return nil, nil, nil, err
			}
			return cfg, logg, res, nil
		},
	}

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// exitTempFail is sysexits' EX_TEMPFAIL.
const exitTempFail = 75

// exitCode lets scripts tell a storage hiccup worth retrying from a usage
// or configuration mistake.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case pkgerrors.As(err) != nil && pkgerrors.Retryable(err):
		return exitTempFail
	default:
		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cartctl",
		Short: "Inspect and administer visitor carts",
		Long: `cartctl works directly against the configured cart storage backend.

It uses the same STOREFRONT_* configuration as the storefront server, so a
visitor's cart looks exactly as it does on the cart page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.visitorID, "visitor", "", "visitor id (from the sf_visitor cookie)")

	root.AddCommand(
		showCmd(a),
		clearCmd(a),
		checkoutCmd(a),
		purgeCmd(a),
	)
	return root
}
