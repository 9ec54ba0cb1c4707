package cartstore

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps slots in the cart_slots table. Rows past expires_at read as empty.
type SQLStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLStore(db *gorm.DB, ttl time.Duration) *SQLStore {
	return &SQLStore{db: db, ttl: ttl, now: time.Now}
}

func (s *SQLStore) Read(ctx context.Context, key string) (string, error) {
	var slot models.CartSlot
	err := s.db.WithContext(ctx).
		Where("slot_key = ?", key).
		Where("expires_at IS NULL OR expires_at > ?", s.now().UTC()).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", cart.ErrSlotEmpty
	}
	if err != nil {
		return "", err
	}
	return slot.Payload, nil
}

func (s *SQLStore) Write(ctx context.Context, key, value string) error {
	now := s.now().UTC()
	slot := models.CartSlot{
		Key:       key,
		Payload:   value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.ttl > 0 {
		expires := now.Add(s.ttl)
		slot.ExpiresAt = &expires
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
		}).
		Create(&slot).Error
}

// PurgeExpired deletes slots whose TTL has passed and reports how many went.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.CartSlot{})
	return res.RowsAffected, res.Error
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Name() string {
	return "sql"
}
