package storefront

import (
	"context"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// Ports are the request-scoped collaborators a Manager talks to.
type Ports struct {
	Renderer  cart.Renderer
	Notifier  cart.Notifier
	Confirmer cart.Confirmer
	Opener    cart.LinkOpener
}

// SessionPorts wires every port to s.
func SessionPorts(s *Session) Ports {
	return Ports{Renderer: s, Notifier: s, Confirmer: s, Opener: s}
}

// CartFactory builds one hydrated Manager per page lifetime.
type CartFactory struct {
	Slots     cart.SlotStore
	SlotName  string
	Formatter cart.PriceFormatter
	Checkout  cart.CheckoutConfig
	Metrics   cart.Recorder
	Logger    *logger.Logger
}

// Manager loads visitorID's cart and binds it to ports.
func (f *CartFactory) Manager(ctx context.Context, visitorID string, ports Ports) (*cart.Manager, error) {
	if visitorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "visitor id is required")
	}
	store := cart.NewStateStore(f.Slots, cart.SlotKey(f.SlotName, visitorID), f.Logger, f.Metrics)
	m, err := cart.NewManager(cart.Options{
		Store:     store,
		Renderer:  ports.Renderer,
		Notifier:  ports.Notifier,
		Confirmer: ports.Confirmer,
		Opener:    ports.Opener,
		Formatter: f.Formatter,
		Checkout:  f.Checkout,
		Metrics:   f.Metrics,
		Logger:    f.Logger,
	})
	if err != nil {
		return nil, err
	}
	m.Load(ctx)
	return m, nil
}
