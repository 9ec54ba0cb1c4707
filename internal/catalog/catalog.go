// Package catalog loads the products offered on the storefront page.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Product is one entry of the catalog page.
type Product struct {
	ID          string  `yaml:"id" validate:"required"`
	Name        string  `yaml:"name" validate:"required"`
	Price       float64 `yaml:"price" validate:"gte=0"`
	Image       string  `yaml:"image" validate:"required,url"`
	Description string  `yaml:"description"`
}

// PriceText is the raw price attached to add-to-cart triggers.
func (p Product) PriceText() string {
	return strconv.FormatFloat(p.Price, 'f', -1, 64)
}

// PriceDecimal is the price as an exact amount for formatting.
func (p Product) PriceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.Price)
}

// Catalog is the ordered product list.
type Catalog struct {
	Products []Product `yaml:"products" validate:"required,min=1,dive"`

	byID map[string]int
}

var validate = validator.New()

// Load reads the catalog at path, or the bundled one when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %q: %w", path, err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	c.byID = make(map[string]int, len(c.Products))
	for i, p := range c.Products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	return &c, nil
}

// Find returns the product with id.
func (c *Catalog) Find(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.Products[i], true
}
