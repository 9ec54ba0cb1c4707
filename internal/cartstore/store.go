// Package cartstore provides the storage slot backends behind cart.SlotStore.
package cartstore

import (
	"context"

	"github.com/angelmondragon/storefront-cart/internal/cart"
)

// Store is a slot backend that can also report its health.
type Store interface {
	cart.SlotStore
	Ping(ctx context.Context) error
	Name() string
}
