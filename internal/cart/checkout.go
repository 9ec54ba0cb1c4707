package cart

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CheckoutConfig addresses the messaging channel orders are sent to.
type CheckoutConfig struct {
	BaseURL     string
	Destination string
}

// CheckoutResult describes a submitted order.
type CheckoutResult struct {
	Link     string
	Message  string
	Total    decimal.Decimal
	Quantity int
}

// ComposeOrder renders the itemized order text and returns it with the total.
func ComposeOrder(items []Item, f PriceFormatter) (string, decimal.Decimal) {
	var b strings.Builder
	b.WriteString(orderGreeting)

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
		b.WriteString("*Produto:* " + item.Name + "\n")
		b.WriteString("*Quantidade:* " + strconv.Itoa(item.Quantity) + "\n")
		b.WriteString("*Preço:* " + f.Format(decimal.NewFromFloat(item.Price)) + "\n")
		b.WriteString(orderSeparator)
	}

	b.WriteString("\n*Total do Pedido:* " + f.Format(total))
	return b.String(), total
}

// Link builds the message URI pre-filled with text.
func (c CheckoutConfig) Link(text string) (string, error) {
	destination := strings.TrimSpace(c.Destination)
	if destination == "" {
		return "", fmt.Errorf("checkout destination is required")
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = "https://wa.me"
	}
	if _, err := url.Parse(base); err != nil {
		return "", fmt.Errorf("parsing checkout base url: %w", err)
	}
	return base + "/" + url.PathEscape(destination) + "?text=" + encodeURIComponent(text), nil
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes text the way browsers do for a single URI
// component: spaces become %20, never '+'.
func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
