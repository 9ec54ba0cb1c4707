package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

// ParseQueryBool reads a boolean flag; a missing flag is false.
func ParseQueryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.Newf(pkgerrors.CodeValidation, "query parameter %s must be a boolean", key).
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return value, nil
}
