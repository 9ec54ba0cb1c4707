package models

import "time"

// CartSlot holds one serialized cart keyed by slot key.
type CartSlot struct {
	Key       string     `gorm:"column:slot_key;primaryKey"`
	Payload   string     `gorm:"column:payload;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartSlot) TableName() string {
	return "cart_slots"
}
