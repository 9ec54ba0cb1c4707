// Package cartcontrollers serves the JSON cart API under /api/v1/cart.
package cartcontrollers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// openCart hydrates the requesting visitor's cart bound to s.
func openCart(w http.ResponseWriter, r *http.Request, carts *storefront.CartFactory, logg *logger.Logger, s *storefront.Session) (*cart.Manager, bool) {
	if carts == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart factory unavailable"))
		return nil, false
	}
	visitorID := middleware.VisitorIDFromContext(r.Context())
	if visitorID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "visitor cookie missing"))
		return nil, false
	}
	m, err := carts.Manager(r.Context(), visitorID, storefront.SessionPorts(s))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "opening cart"))
		return nil, false
	}
	return m, true
}

// CartFetch returns the visitor's cart.
func CartFetch(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := openCart(w, r, carts, logg, storefront.NewSession(""))
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(m))
	}
}

// CartBadge returns the item count shown on the header badge.
func CartBadge(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := openCart(w, r, carts, logg, storefront.NewSession(""))
		if !ok {
			return
		}
		responses.WriteSuccess(w, badgeResponse{Count: m.Count()})
	}
}

// CartAddItem adds one unit of a product.
func CartAddItem(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		s := storefront.NewSession("")
		m, ok := openCart(w, r, carts, logg, s)
		if !ok {
			return
		}
		if err := m.AddItem(r.Context(), payload.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(m))
	}
}

// CartSetQuantity overwrites a line quantity; unusable values become 1.
func CartSetQuantity(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, ok := openCart(w, r, carts, logg, storefront.NewSession(""))
		if !ok {
			return
		}
		m.SetQuantityText(r.Context(), id, string(payload.Quantity))
		responses.WriteSuccess(w, newCartResponse(m))
	}
}

// CartIncrement adds one unit to a line.
func CartIncrement(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return itemAction(carts, logg, (*cart.Manager).IncrementQuantity)
}

// CartDecrement removes one unit from a line, never going below 1.
func CartDecrement(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return itemAction(carts, logg, (*cart.Manager).DecrementQuantity)
}

// CartRemoveItem drops a line.
func CartRemoveItem(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return itemAction(carts, logg, (*cart.Manager).RemoveItem)
}

func itemAction(carts *storefront.CartFactory, logg *logger.Logger, apply func(*cart.Manager, context.Context, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, ok := openCart(w, r, carts, logg, storefront.NewSession(""))
		if !ok {
			return
		}
		apply(m, r.Context(), id)
		responses.WriteSuccess(w, newCartResponse(m))
	}
}

// CartClear empties the cart when confirm=true is passed.
func CartClear(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirm, err := validators.ParseQueryBool(r, "confirm")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		answer := storefront.AnswerNo
		if confirm {
			answer = storefront.AnswerYes
		}
		m, ok := openCart(w, r, carts, logg, storefront.NewSession(answer))
		if !ok {
			return
		}
		cleared := m.Clear(r.Context())
		responses.WriteSuccess(w, clearResponse{Cleared: cleared, Cart: newCartResponse(m)})
	}
}

// CartCheckout builds the messaging link for the order and empties the cart.
func CartCheckout(carts *storefront.CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := openCart(w, r, carts, logg, storefront.NewSession(""))
		if !ok {
			return
		}
		result, err := m.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutResponse{
			CheckoutURL: result.Link,
			Message:     result.Message,
			Total:       carts.Formatter.Format(result.Total),
			Quantity:    result.Quantity,
		})
	}
}

// flexText accepts a JSON string or number and keeps its text.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexText(n.String())
	return nil
}
