package validators

import (
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

// MaxItemIDLength bounds product ids taken from paths and forms.
const MaxItemIDLength = 255

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// PathID decodes an escaped item id taken from a route parameter.
func PathID(raw string) (string, error) {
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	id = SanitizeString(id, MaxItemIDLength)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return id, nil
}
