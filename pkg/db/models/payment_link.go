package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentLink is a one-time-use checkout URL registered by the admin.
// Invariant: IsUsed flips false→true exactly once; UsedBy/UsedAt are set at
// that moment and never cleared or reassigned.
type PaymentLink struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	CheckoutURL string     `gorm:"column:checkout_url;not null"`
	IsUsed      bool       `gorm:"column:is_used;not null;default:false;index"`
	UsedBy      *string    `gorm:"column:used_by;index"`
	UsedAt      *time.Time `gorm:"column:used_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (p *PaymentLink) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
