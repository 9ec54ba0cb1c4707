package cart

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/shopspring/decimal"
)

// Options wires a Manager to its collaborators. Only Store is mandatory.
type Options struct {
	Store     *StateStore
	Renderer  Renderer
	Notifier  Notifier
	Confirmer Confirmer
	Opener    LinkOpener
	Formatter PriceFormatter
	Checkout  CheckoutConfig
	Metrics   Recorder
	Logger    *logger.Logger
}

// Manager owns one visitor's cart for the lifetime of a page: it is hydrated
// from the slot, mutated, written through after every change, and rendered.
type Manager struct {
	store     *StateStore
	renderer  Renderer
	notifier  Notifier
	confirmer Confirmer
	opener    LinkOpener
	formatter PriceFormatter
	checkout  CheckoutConfig
	metrics   Recorder
	logg      *logger.Logger

	items []Item
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("cart state store required")
	}
	if opts.Formatter == nil {
		return nil, fmt.Errorf("price formatter required")
	}
	m := &Manager{
		store:     opts.Store,
		renderer:  opts.Renderer,
		notifier:  opts.Notifier,
		confirmer: opts.Confirmer,
		opener:    opts.Opener,
		formatter: opts.Formatter,
		checkout:  opts.Checkout,
		metrics:   opts.Metrics,
		logg:      opts.Logger,
		items:     []Item{},
	}
	if m.renderer == nil {
		m.renderer = nopRenderer{}
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	if m.confirmer == nil {
		m.confirmer = declineConfirmer{}
	}
	if m.opener == nil {
		m.opener = nopOpener{}
	}
	if m.metrics == nil {
		m.metrics = nopRecorder{}
	}
	if m.logg == nil {
		m.logg = logger.Nop()
	}
	return m, nil
}

// Load hydrates the cart from storage and refreshes the badge.
func (m *Manager) Load(ctx context.Context) {
	m.items = m.store.Load(ctx)
	m.renderer.RenderBadge(TotalQuantity(m.items))
}

// Items returns a copy of the cart lines in insertion order.
func (m *Manager) Items() []Item {
	return cloneItems(m.items)
}

// Count is the badge value: the sum of all quantities.
func (m *Manager) Count() int {
	return TotalQuantity(m.items)
}

// Subtotal is the sum of all line totals.
func (m *Manager) Subtotal() decimal.Decimal {
	return Subtotal(m.items)
}

// View projects the cart for rendering.
func (m *Manager) View() View {
	return buildView(m.items, m.formatter)
}

// Render pushes the badge and the cart view to the renderer.
func (m *Manager) Render() {
	m.renderer.RenderBadge(TotalQuantity(m.items))
	m.renderer.RenderCart(m.View())
}

// AddItem merges a product into the cart. Invalid data aborts without any
// state change, persistence or toast.
func (m *Manager) AddItem(ctx context.Context, in AddItemInput) error {
	candidate, err := in.parse()
	if err != nil {
		m.logg.WarnErr(m.logg.WithField(ctx, "product_id", in.ID), "cart.add_item.invalid", err)
		return err
	}

	if idx := m.indexOf(candidate.ID); idx >= 0 {
		if m.items[idx].Quantity < MaxQuantity {
			m.items[idx].Quantity++
		}
	} else {
		m.items = append(m.items, candidate)
	}

	m.save(ctx, "add_item")
	m.notifier.Toast(MsgAddedToCart)
	return nil
}

// RemoveItem drops the line with id; unknown ids leave the cart as is.
func (m *Manager) RemoveItem(ctx context.Context, id string) {
	kept := m.items[:0:0]
	for _, item := range m.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	m.save(ctx, "remove_item")
	m.renderer.RenderCart(m.View())
}

// SetQuantity sets the quantity of an existing line, clamped to
// [1, MaxQuantity].
func (m *Manager) SetQuantity(ctx context.Context, id string, quantity int) {
	idx := m.indexOf(id)
	if idx < 0 {
		return
	}
	quantity = max(1, min(quantity, MaxQuantity))
	m.items[idx].Quantity = quantity
	m.save(ctx, "set_quantity")
	m.renderer.RenderCart(m.View())
}

// SetQuantityText is SetQuantity for raw input from a quantity field.
func (m *Manager) SetQuantityText(ctx context.Context, id, raw string) {
	m.SetQuantity(ctx, id, ParseQuantity(raw))
}

// IncrementQuantity raises a line by one; a line at MaxQuantity stays put.
func (m *Manager) IncrementQuantity(ctx context.Context, id string) {
	idx := m.indexOf(id)
	if idx < 0 || m.items[idx].Quantity >= MaxQuantity {
		return
	}
	m.items[idx].Quantity++
	m.save(ctx, "increment")
	m.renderer.RenderCart(m.View())
}

// DecrementQuantity lowers a line by one but never below 1.
func (m *Manager) DecrementQuantity(ctx context.Context, id string) {
	idx := m.indexOf(id)
	if idx < 0 || m.items[idx].Quantity <= 1 {
		return
	}
	m.items[idx].Quantity--
	m.save(ctx, "decrement")
	m.renderer.RenderCart(m.View())
}

// Clear empties the cart once the visitor confirms. It reports whether the
// cart was cleared; an already empty cart is not prompted for.
func (m *Manager) Clear(ctx context.Context) bool {
	if len(m.items) == 0 {
		return false
	}
	if !m.confirmer.Confirm(MsgConfirmClear) {
		m.logg.Debug(ctx, "cart.clear.declined")
		return false
	}
	m.items = []Item{}
	m.save(ctx, "clear")
	m.renderer.RenderCart(m.View())
	m.notifier.Toast(MsgCartCleared)
	return true
}

// Checkout sends the order through the messaging link and empties the cart.
// The cart is cleared as soon as the link is opened; completion of the
// conversation is never awaited.
func (m *Manager) Checkout(ctx context.Context) (*CheckoutResult, error) {
	if len(m.items) == 0 {
		m.notifier.Alert(MsgEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	text, total := ComposeOrder(m.items, m.formatter)
	link, err := m.checkout.Link(text)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building checkout link")
	}
	quantity := TotalQuantity(m.items)

	m.opener.Open(link)

	m.items = []Item{}
	m.save(ctx, "checkout")
	m.renderer.RenderCart(m.View())
	m.notifier.Alert(MsgOrderSent)

	totalFloat, _ := total.Float64()
	m.metrics.ObserveCheckout(totalFloat, quantity)
	m.logg.Info(m.logg.WithFields(ctx, map[string]any{
		"order_total": total.StringFixed(2),
		"quantity":    quantity,
	}), "cart.checkout.submitted")

	return &CheckoutResult{Link: link, Message: text, Total: total, Quantity: quantity}, nil
}

// save writes the cart through and refreshes the badge. Storage failures are
// logged and counted; the visitor keeps the in-memory cart for this page.
func (m *Manager) save(ctx context.Context, op string) {
	m.metrics.IncMutation(op)
	if err := m.store.Save(ctx, m.items); err != nil {
		m.metrics.IncStorageFailure("save")
		m.logg.WarnErr(m.logg.WithFields(ctx, map[string]any{"op": op, "slot_key": m.store.Key()}), "cart.save.failed", err)
	}
	m.renderer.RenderBadge(TotalQuantity(m.items))
}

func (m *Manager) indexOf(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}
