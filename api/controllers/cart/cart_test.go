package cartcontrollers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/cartstore"
	"github.com/angelmondragon/storefront-cart/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/money"
)

const shirtJSON = `{"id":"shirt","name":"Shirt","price":"29.9","image":"https://example.com/shirt.png"}`

func newFactory() *storefront.CartFactory {
	return &storefront.CartFactory{
		Slots:     cartstore.NewMemoryStore(),
		SlotName:  "cart",
		Formatter: money.MustFormatter("pt-BR", "BRL", "R$"),
		Checkout:  cart.CheckoutConfig{BaseURL: "https://wa.me", Destination: "5511999999999"},
	}
}

func newRouter(carts *storefront.CartFactory) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", CartFetch(carts, nil))
		r.Delete("/", CartClear(carts, nil))
		r.Get("/badge", CartBadge(carts, nil))
		r.Post("/items", CartAddItem(carts, nil))
		r.Put("/items/{id}/quantity", CartSetQuantity(carts, nil))
		r.Post("/items/{id}/increment", CartIncrement(carts, nil))
		r.Post("/items/{id}/decrement", CartDecrement(carts, nil))
		r.Delete("/items/{id}", CartRemoveItem(carts, nil))
		r.Post("/checkout", CartCheckout(carts, nil))
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(middleware.WithVisitorID(req.Context(), "visitor-1"))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemTwiceIncrementsQuantity(t *testing.T) {
	h := newRouter(newFactory())

	first := do(t, h, http.MethodPost, "/api/v1/cart/items", shirtJSON)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	resp := do(t, h, http.MethodPost, "/api/v1/cart/items",
		`{"id":"shirt","name":"Other name","price":99,"image":"https://example.com/other.png"}`)

	got := decodeData[cartResponse](t, resp)
	if len(got.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(got.Items))
	}
	line := got.Items[0]
	if line.Quantity != 2 || line.Name != "Shirt" || line.Price != 29.9 {
		t.Fatalf("unexpected line %+v", line)
	}
	if got.Subtotal != "R$ 59,80" || got.ItemCount != 2 {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestCartAddItemRejectsIncompleteProduct(t *testing.T) {
	h := newRouter(newFactory())

	resp := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"id":"shirt","name":"Shirt","price":"abc","image":"x"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	badge := decodeData[badgeResponse](t, do(t, h, http.MethodGet, "/api/v1/cart/badge", ""))
	if badge.Count != 0 {
		t.Fatalf("rejected add must not change the cart, badge %d", badge.Count)
	}
}

func TestCartQuantityControls(t *testing.T) {
	h := newRouter(newFactory())
	do(t, h, http.MethodPost, "/api/v1/cart/items", shirtJSON)

	got := decodeData[cartResponse](t, do(t, h, http.MethodPost, "/api/v1/cart/items/shirt/decrement", ""))
	if got.Items[0].Quantity != 1 {
		t.Fatalf("decrement must stop at 1, got %d", got.Items[0].Quantity)
	}

	got = decodeData[cartResponse](t, do(t, h, http.MethodPost, "/api/v1/cart/items/shirt/increment", ""))
	if got.Items[0].Quantity != 2 {
		t.Fatalf("expected 2 after increment, got %d", got.Items[0].Quantity)
	}

	for _, raw := range []string{`{"quantity":0}`, `{"quantity":-5}`, `{"quantity":"abc"}`} {
		got = decodeData[cartResponse](t, do(t, h, http.MethodPut, "/api/v1/cart/items/shirt/quantity", raw))
		if got.Items[0].Quantity != 1 {
			t.Fatalf("%s: expected quantity clamped to 1, got %d", raw, got.Items[0].Quantity)
		}
	}

	got = decodeData[cartResponse](t, do(t, h, http.MethodPut, "/api/v1/cart/items/shirt/quantity", `{"quantity":"7"}`))
	if got.Items[0].Quantity != 7 {
		t.Fatalf("expected 7, got %d", got.Items[0].Quantity)
	}
}

func TestCartRemoveItemHandlesEscapedIDs(t *testing.T) {
	h := newRouter(newFactory())
	do(t, h, http.MethodPost, "/api/v1/cart/items", `{"id":"camisa azul","name":"Camisa","price":"10","image":"https://example.com/c.png"}`)
	do(t, h, http.MethodPost, "/api/v1/cart/items", shirtJSON)

	got := decodeData[cartResponse](t, do(t, h, http.MethodDelete, "/api/v1/cart/items/camisa%20azul", ""))
	if len(got.Items) != 1 || got.Items[0].ID != "shirt" {
		t.Fatalf("unexpected items %+v", got.Items)
	}

	got = decodeData[cartResponse](t, do(t, h, http.MethodDelete, "/api/v1/cart/items/missing", ""))
	if len(got.Items) != 1 {
		t.Fatalf("removing an absent id must leave the cart unchanged")
	}
}

func TestCartAddItemTrimsID(t *testing.T) {
	h := newRouter(newFactory())
	resp := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"id":"  a1 ","name":" Caneca ","price":10,"image":"https://example.com/a1.png"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	added := decodeData[cartResponse](t, resp)
	if len(added.Items) != 1 || added.Items[0].ID != "a1" || added.Items[0].Name != "Caneca" {
		t.Fatalf("expected trimmed line, got %+v", added.Items)
	}

	got := decodeData[cartResponse](t, do(t, h, http.MethodPost, "/api/v1/cart/items/a1/increment", ""))
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("trimmed id should be reachable from item routes, got %+v", got.Items)
	}

	blank := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"id":"   ","name":"X","price":"1","image":"https://example.com/x.png"}`)
	if blank.Code != http.StatusBadRequest {
		t.Fatalf("blank id should be rejected, got %d", blank.Code)
	}
}

func TestCartClearRequiresConfirmation(t *testing.T) {
	h := newRouter(newFactory())
	do(t, h, http.MethodPost, "/api/v1/cart/items", shirtJSON)

	declined := decodeData[clearResponse](t, do(t, h, http.MethodDelete, "/api/v1/cart", ""))
	if declined.Cleared || len(declined.Cart.Items) != 1 {
		t.Fatalf("cart cleared without confirmation: %+v", declined)
	}

	confirmed := decodeData[clearResponse](t, do(t, h, http.MethodDelete, "/api/v1/cart?confirm=true", ""))
	if !confirmed.Cleared || !confirmed.Cart.Empty || confirmed.Cart.ItemCount != 0 {
		t.Fatalf("expected an empty cart, got %+v", confirmed)
	}

	if resp := do(t, h, http.MethodDelete, "/api/v1/cart?confirm=perhaps", ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed flag, got %d", resp.Code)
	}
}

func TestCartCheckout(t *testing.T) {
	h := newRouter(newFactory())
	do(t, h, http.MethodPost, "/api/v1/cart/items", `{"id":"mug","name":"Mug","price":"10.00","image":"https://example.com/mug.png"}`)
	do(t, h, http.MethodPut, "/api/v1/cart/items/mug/quantity", `{"quantity":3}`)

	resp := do(t, h, http.MethodPost, "/api/v1/cart/checkout", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	got := decodeData[checkoutResponse](t, resp)
	if !strings.HasPrefix(got.CheckoutURL, "https://wa.me/5511999999999?text=") {
		t.Fatalf("unexpected link %s", got.CheckoutURL)
	}
	if got.Total != "R$ 30,00" || got.Quantity != 3 {
		t.Fatalf("unexpected checkout %+v", got)
	}
	if !strings.Contains(got.Message, "Mug") || !strings.Contains(got.Message, "R$ 30,00") {
		t.Fatalf("unexpected message %q", got.Message)
	}

	after := decodeData[cartResponse](t, do(t, h, http.MethodGet, "/api/v1/cart", ""))
	if !after.Empty {
		t.Fatalf("checkout must empty the cart")
	}
}

func TestCartCheckoutEmptyCart(t *testing.T) {
	h := newRouter(newFactory())

	resp := do(t, h, http.MethodPost, "/api/v1/cart/checkout", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestCartFetchWithoutVisitor(t *testing.T) {
	handler := CartFetch(newFactory(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestFlexText(t *testing.T) {
	var payload struct {
		A flexText `json:"a"`
		B flexText `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"12.5","b":12.5}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A != "12.5" || payload.B != "12.5" {
		t.Fatalf("unexpected %+v", payload)
	}
	if err := json.Unmarshal([]byte(`{"a":true}`), &payload); err == nil {
		t.Fatalf("expected error for boolean")
	}
}
