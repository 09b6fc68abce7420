package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentGrant records that a user may access one specific non-free
// document. The unique index makes the grant a set membership: inserting an
// existing (user, document) pair is a no-op.
type DocumentGrant struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_document_grants_user_document"`
	DocumentID uuid.UUID `gorm:"column:document_id;type:uuid;not null;uniqueIndex:idx_document_grants_user_document"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (g *DocumentGrant) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
