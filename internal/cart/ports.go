package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSlotEmpty is returned by a SlotStore when nothing was ever written to the key.
var ErrSlotEmpty = errors.New("cart slot empty")

// SlotStore is the durable key-value storage holding one serialized cart per key.
type SlotStore interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
}

// Renderer reflects cart state on the current page.
type Renderer interface {
	RenderBadge(count int)
	RenderCart(view View)
}

// Notifier shows transient toasts and blocking alerts.
type Notifier interface {
	Toast(message string)
	Alert(message string)
}

// Confirmer asks the visitor a yes/no question before destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// LinkOpener opens a URL in a new browsing context. Fire and forget.
type LinkOpener interface {
	Open(url string)
}

// PriceFormatter turns amounts into display text.
type PriceFormatter interface {
	Format(amount decimal.Decimal) string
}

// Recorder receives cart telemetry.
type Recorder interface {
	IncMutation(op string)
	IncStorageFailure(op string)
	ObserveCheckout(total float64, quantity int)
}

type nopRenderer struct{}

func (nopRenderer) RenderBadge(int) {}
func (nopRenderer) RenderCart(View) {}

type nopNotifier struct{}

func (nopNotifier) Toast(string) {}
func (nopNotifier) Alert(string) {}

type declineConfirmer struct{}

func (declineConfirmer) Confirm(string) bool { return false }

type nopOpener struct{}

func (nopOpener) Open(string) {}

type nopRecorder struct{}

func (nopRecorder) IncMutation(string) {}
func (nopRecorder) IncStorageFailure(string) {}
func (nopRecorder) ObserveCheckout(float64, int) {}
