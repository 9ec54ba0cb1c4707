package instance

import (
	"os"

	"github.com/angelmondragon/storefront-cart/pkg/env"
)

// ID names this process in logs: the platform dyno id, the host name, or
// "local" as a last resort.
func ID() string {
	if id := env.Get("DYNO", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
