package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/internal/storefront"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const (
	titleCatalog = "Produtos"
	titleCart    = "Carrinho"
)

// PageEnv is what the server-rendered storefront pages need.
type PageEnv struct {
	StoreName     string
	ToastDuration time.Duration
	SecureCookies bool
	Catalog       *catalog.Catalog
	Carts         *storefront.CartFactory
	Pages         *storefront.Pages
	Logger        *logger.Logger
}

func (e *PageEnv) open(w http.ResponseWriter, r *http.Request, s *storefront.Session) (*cart.Manager, bool) {
	visitorID := middleware.VisitorIDFromContext(r.Context())
	if visitorID == "" {
		responses.WriteError(r.Context(), e.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "visitor cookie missing"))
		return nil, false
	}
	m, err := e.Carts.Manager(r.Context(), visitorID, storefront.SessionPorts(s))
	if err != nil {
		responses.WriteError(r.Context(), e.Logger, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "opening cart"))
		return nil, false
	}
	return m, true
}

func (e *PageEnv) render(w http.ResponseWriter, r *http.Request, page, title string, s *storefront.Session) {
	data := storefront.NewPageData(e.StoreName, title, e.ToastDuration, s)
	if page == storefront.PageCatalog && e.Catalog != nil {
		data.Products = e.Catalog.Products
		data.Prices = make(map[string]string, len(e.Catalog.Products))
		for _, p := range e.Catalog.Products {
			data.Prices[p.ID] = e.Carts.Formatter.Format(p.PriceDecimal())
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := e.Pages.Render(w, page, data); err != nil {
		responses.WriteError(r.Context(), e.Logger, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering page"))
	}
}

// redirect stores the session's pending messages and sends the visitor to target.
func (e *PageEnv) redirect(w http.ResponseWriter, r *http.Request, s *storefront.Session, target string) {
	storefront.WriteFlash(w, s.Flash(), e.SecureCookies)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// CatalogPage lists the products with their add-to-cart triggers.
func CatalogPage(env *PageEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := storefront.NewSession("")
		s.Absorb(storefront.ReadFlash(w, r))
		if _, ok := env.open(w, r, s); !ok {
			return
		}
		env.render(w, r, storefront.PageCatalog, titleCatalog, s)
	}
}

// CartPage shows the cart lines, totals and the clear/checkout triggers.
func CartPage(env *PageEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := storefront.NewSession("")
		s.Absorb(storefront.ReadFlash(w, r))
		m, ok := env.open(w, r, s)
		if !ok {
			return
		}
		m.Render()
		env.render(w, r, storefront.PageCart, titleCart, s)
	}
}

// CartAdd handles an add-to-cart trigger and returns the visitor where they were.
func CartAdd(env *PageEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), env.Logger, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}
		s := storefront.NewSession("")
		m, ok := env.open(w, r, s)
		if !ok {
			return
		}
		in := cart.AddItemInput{
			ID:    validators.SanitizeString(r.PostForm.Get("id"), validators.MaxItemIDLength),
			Name:  strings.TrimSpace(r.PostForm.Get("name")),
			Price: r.PostForm.Get("price"),
			Image: strings.TrimSpace(r.PostForm.Get("image")),
		}
		// an invalid trigger aborts silently; only the log sees it
		if err := m.AddItem(r.Context(), in); err != nil {
			env.Logger.WarnErr(r.Context(), "cart.add.rejected", err)
		}
		env.redirect(w, r, s, backTo(r))
	}
}

// CartItemAction applies a per-row control (increment, decrement, remove,
// quantity) and redirects to the cart page.
func CartItemAction(env *PageEnv, action enums.CartAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), env.Logger, w, err)
			return
		}
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), env.Logger, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}
		s := storefront.NewSession("")
		m, ok := env.open(w, r, s)
		if !ok {
			return
		}
		switch action {
		case enums.CartActionIncrement:
			m.IncrementQuantity(r.Context(), id)
		case enums.CartActionDecrement:
			m.DecrementQuantity(r.Context(), id)
		case enums.CartActionRemove:
			m.RemoveItem(r.Context(), id)
		case enums.CartActionQuantity:
			m.SetQuantityText(r.Context(), id, r.PostForm.Get("quantity"))
		default:
			responses.WriteError(r.Context(), env.Logger, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown cart action"))
			return
		}
		env.redirect(w, r, s, "/cart")
	}
}

// CartClear empties the cart. Without an answer the cart page is rendered
// with the confirmation prompt.
func CartClear(env *PageEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), env.Logger, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}
		s := storefront.NewSession(r.PostForm.Get("confirm"))
		m, ok := env.open(w, r, s)
		if !ok {
			return
		}
		m.Clear(r.Context())
		if s.Prompt != "" {
			m.Render()
			env.render(w, r, storefront.PageCart, titleCart, s)
			return
		}
		env.redirect(w, r, s, "/cart")
	}
}

// CartCheckout sends the order to the messaging link. The resulting page
// carries the alert and opens the link in a new browsing context.
func CartCheckout(env *PageEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := storefront.NewSession("")
		m, ok := env.open(w, r, s)
		if !ok {
			return
		}
		if _, err := m.Checkout(r.Context()); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			responses.WriteError(r.Context(), env.Logger, w, err)
			return
		}
		m.Render()
		env.render(w, r, storefront.PageCart, titleCart, s)
	}
}

// backTo resolves the same-site page the visitor submitted from.
func backTo(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
