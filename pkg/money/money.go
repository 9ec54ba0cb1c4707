// Package money formats decimal amounts as locale-aware currency text.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts like "R$ 59,80" for a fixed locale and currency.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	scale   int32
	verb    string
}

// NewFormatter builds a formatter for a BCP 47 locale and an ISO 4217 currency code.
// An empty symbol falls back to the ISO code.
func NewFormatter(locale, currencyCode, symbol string) (*Formatter, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", currencyCode, err)
	}
	scale, _ := currency.Standard.Rounding(unit)

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = unit.String()
	}

	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
		symbol:  symbol,
		scale:   int32(scale),
		verb:    fmt.Sprintf("%%.%df", scale),
	}, nil
}

// MustFormatter is NewFormatter for static configuration; it panics on bad input.
func MustFormatter(locale, currencyCode, symbol string) *Formatter {
	f, err := NewFormatter(locale, currencyCode, symbol)
	if err != nil {
		panic(err)
	}
	return f
}

// Format renders the amount rounded to the currency's standard scale.
func (f *Formatter) Format(amount decimal.Decimal) string {
	value, _ := f.Round(amount).Float64()
	return f.symbol + " " + f.printer.Sprintf(f.verb, value)
}

// FormatFloat is Format for a float unit price.
func (f *Formatter) FormatFloat(amount float64) string {
	return f.Format(decimal.NewFromFloat(amount))
}

// Round applies the currency's standard scale.
func (f *Formatter) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(f.scale)
}

// Currency returns the ISO code the formatter was built for.
func (f *Formatter) Currency() string {
	return f.unit.String()
}
