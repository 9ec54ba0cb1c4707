package cartcontrollers

import (
	"strings"

	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/internal/cart"
)

type addItemRequest struct {
	ID    string   `json:"id" validate:"required"`
	Name  string   `json:"name" validate:"required"`
	Price flexText `json:"price" validate:"required"`
	Image string   `json:"image" validate:"required"`
}

// toInput trims the id the same way path ids are trimmed so the line stays
// reachable from the item routes.
func (r addItemRequest) toInput() cart.AddItemInput {
	return cart.AddItemInput{
		ID:    validators.SanitizeString(r.ID, validators.MaxItemIDLength),
		Name:  strings.TrimSpace(r.Name),
		Price: string(r.Price),
		Image: strings.TrimSpace(r.Image),
	}
}

type quantityRequest struct {
	Quantity flexText `json:"quantity"`
}

type badgeResponse struct {
	Count int `json:"count"`
}

type cartItemResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	LineTotal string  `json:"line_total"`
}

type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Empty     bool               `json:"empty"`
	Subtotal  string             `json:"subtotal"`
	Total     string             `json:"total"`
}

type clearResponse struct {
	Cleared bool         `json:"cleared"`
	Cart    cartResponse `json:"cart"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message"`
	Total       string `json:"total"`
	Quantity    int    `json:"quantity"`
}

func newCartResponse(m *cart.Manager) cartResponse {
	items := m.Items()
	view := m.View()
	resp := cartResponse{
		Items:     make([]cartItemResponse, 0, len(items)),
		ItemCount: view.ItemCount,
		Empty:     view.Empty,
		Subtotal:  view.Subtotal,
		Total:     view.Total,
	}
	for i, item := range items {
		row := view.Rows[i]
		resp.Items = append(resp.Items, cartItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			UnitPrice: row.UnitPrice,
			LineTotal: row.LineTotal,
		})
	}
	return resp
}
