package cart

import "github.com/shopspring/decimal"

// View is the cart page projection handed to the Renderer.
type View struct {
	Empty     bool
	Rows      []Row
	ItemCount int
	Subtotal  string
	Total     string
}

// Row is one rendered line of the cart page.
type Row struct {
	ID        string
	Name      string
	Image     string
	Quantity  int
	UnitPrice string
	LineTotal string
}

func buildView(items []Item, f PriceFormatter) View {
	subtotal := Subtotal(items)
	view := View{
		Empty:     len(items) == 0,
		Rows:      make([]Row, 0, len(items)),
		ItemCount: TotalQuantity(items),
		Subtotal:  f.Format(subtotal),
		// no tax, shipping or discounts: total mirrors subtotal
		Total: f.Format(subtotal),
	}
	for _, item := range items {
		view.Rows = append(view.Rows, Row{
			ID:        item.ID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			UnitPrice: f.Format(decimal.NewFromFloat(item.Price)),
			LineTotal: f.Format(item.LineTotal()),
		})
	}
	return view
}
