package cart

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// AddItemInput carries the data attached to an add-to-cart trigger. Price is
// raw text, as it arrives from the page.
type AddItemInput struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required"`
	Image string `json:"image" validate:"required"`
}

func (in AddItemInput) parse() (Item, error) {
	if err := validate.Struct(in); err != nil {
		details := map[string]string{}
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = "is required"
			}
		}
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "incomplete product data").WithDetails(details)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product price").
			WithDetails(map[string]string{"price": "must be a non-negative number"})
	}

	return Item{
		ID:       in.ID,
		Name:     in.Name,
		Price:    price,
		Image:    in.Image,
		Quantity: 1,
	}, nil
}

// ParseQuantity reads a quantity typed by the visitor. Anything unparsable
// comes back as 0, which the cart clamps to 1; anything above MaxQuantity,
// including values too large for an int, comes back as MaxQuantity.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return min(n, MaxQuantity)
	}
	f, err := strconv.ParseFloat(raw, 64)
	switch {
	case errors.Is(err, strconv.ErrRange) && f > 0:
		return MaxQuantity
	case err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= -MaxQuantity:
		return 0
	case f >= MaxQuantity:
		return MaxQuantity
	}
	return int(math.Trunc(f))
}
