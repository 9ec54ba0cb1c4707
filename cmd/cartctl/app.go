package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/cartstore"
	"github.com/angelmondragon/storefront-cart/internal/storefront"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/money"
)

type setupFunc func(ctx context.Context) (*config.Config, *logger.Logger, *cartstore.Resources, error)

type app struct {
	in        io.Reader
	out       io.Writer
	setup     setupFunc
	visitorID string
}

// session is one command run against the configured backend.
type session struct {
	cfg       *config.Config
	logg      *logger.Logger
	resources *cartstore.Resources
}

func (a *app) open(ctx context.Context) (*session, error) {
	cfg, logg, res, err := a.setup(ctx)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logg: logg, resources: res}, nil
}

func (s *session) Close() error {
	return s.resources.Close()
}

// manager hydrates the visitor's cart with t playing every port.
func (s *session) manager(ctx context.Context, visitorID string, t *terminal) (*cart.Manager, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, errors.New("--visitor is required")
	}
	formatter, err := money.NewFormatter(s.cfg.Store.Locale, s.cfg.Store.Currency, s.cfg.Store.CurrencySymbol)
	if err != nil {
		return nil, err
	}
	factory := &storefront.CartFactory{
		Slots:     s.resources.Store,
		SlotName:  s.cfg.Storage.SlotName,
		Formatter: formatter,
		Checkout: cart.CheckoutConfig{
			BaseURL:     s.cfg.Store.CheckoutBaseURL,
			Destination: s.cfg.Store.WhatsAppNumber,
		},
		Metrics: metrics.NewCartMetrics(nil),
		Logger:  s.logg,
	}
	return factory.Manager(ctx, visitorID, storefront.Ports{
		Renderer:  t,
		Notifier:  t,
		Confirmer: t,
		Opener:    t,
	})
}

// terminal adapts the cart ports to a command line.
type terminal struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool

	badge int
	view  *cart.View
	link  string
}

func newTerminal(in io.Reader, out io.Writer, assumeYes bool) *terminal {
	return &terminal{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (t *terminal) RenderBadge(count int) { t.badge = count }

func (t *terminal) RenderCart(view cart.View) { t.view = &view }

func (t *terminal) Toast(message string) { fmt.Fprintln(t.out, message) }

func (t *terminal) Alert(message string) { fmt.Fprintln(t.out, message) }

func (t *terminal) Confirm(prompt string) bool {
	if t.assumeYes {
		return true
	}
	fmt.Fprintf(t.out, "%s [s/N]: ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

func (t *terminal) Open(url string) {
	t.link = url
	fmt.Fprintln(t.out, url)
}

func printView(out io.Writer, view cart.View) {
	if view.Empty {
		fmt.Fprintln(out, cart.MsgEmptyCart)
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUTO\tQTD\tUNITÁRIO\tTOTAL")
	for _, row := range view.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", row.ID, row.Name, row.Quantity, row.UnitPrice, row.LineTotal)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "Itens: %d\nSubtotal: %s\nTotal: %s\n", view.ItemCount, view.Subtotal, view.Total)
}
