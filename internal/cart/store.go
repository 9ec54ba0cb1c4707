package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// SlotKey names the storage slot of one visitor's cart.
func SlotKey(slot, visitorID string) string {
	return strings.TrimSpace(slot) + ":" + strings.TrimSpace(visitorID)
}

// StateStore loads and saves the serialized cart of a single slot.
// Reads fail soft: any problem yields an empty cart.
type StateStore struct {
	slots   SlotStore
	key     string
	logg    *logger.Logger
	metrics Recorder
}

// NewStateStore binds a slot backend to one key.
func NewStateStore(slots SlotStore, key string, logg *logger.Logger, metrics Recorder) *StateStore {
	if logg == nil {
		logg = logger.Nop()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &StateStore{slots: slots, key: key, logg: logg, metrics: metrics}
}

// Key returns the slot key this store reads and writes.
func (s *StateStore) Key() string {
	return s.key
}

// Load returns the persisted cart, or an empty one when the slot is absent,
// unreadable or corrupt.
func (s *StateStore) Load(ctx context.Context) []Item {
	if s.slots == nil {
		return []Item{}
	}

	raw, err := s.slots.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			s.metrics.IncStorageFailure("load")
			s.logg.WarnErr(s.logCtx(ctx), "cart.load.unavailable", err)
		}
		return []Item{}
	}

	items, err := decodeItems(raw)
	if err != nil {
		s.metrics.IncStorageFailure("decode")
		s.logg.WarnErr(s.logCtx(ctx), "cart.load.corrupt", err)
		return []Item{}
	}
	return items
}

// Save overwrites the slot with the full cart in a single write.
func (s *StateStore) Save(ctx context.Context, items []Item) error {
	if s.slots == nil {
		return fmt.Errorf("cart storage unavailable")
	}
	payload, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.slots.Write(ctx, s.key, payload); err != nil {
		return fmt.Errorf("writing cart slot: %w", err)
	}
	return nil
}

func (s *StateStore) logCtx(ctx context.Context) context.Context {
	return s.logg.WithField(ctx, "slot_key", s.key)
}

func encodeItems(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeItems parses a stored cart, dropping records that break the item
// invariants and repeated ids, and capping oversized quantities, so the
// in-memory cart is always well formed.
func decodeItems(raw string) ([]Item, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []Item{}, nil
	}

	var decoded []Item
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(decoded))
	seen := make(map[string]struct{}, len(decoded))
	for _, item := range decoded {
		if !item.valid() {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		item.Quantity = min(item.Quantity, MaxQuantity)
		items = append(items, item)
	}
	return items, nil
}
