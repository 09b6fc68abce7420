package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lu-foet/notes-api/pkg/enums"
)

// ActivationRequest is a user's claim that they paid for a document with a
// previously assigned link. Only Status and ProcessedAt ever change after
// creation, and only while Status is pending.
//
// DocumentID is nullable because rows written before document-level grants
// existed carry no document reference. Approval refuses such rows; the user
// has to resubmit.
type ActivationRequest struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	UserEmail     string              `gorm:"column:user_email;not null"`
	UserName      string              `gorm:"column:user_name;not null"`
	LinkID        uuid.UUID           `gorm:"column:link_id;type:uuid;not null"`
	DocumentID    *uuid.UUID          `gorm:"column:document_id;type:uuid"`
	DocumentTitle string              `gorm:"column:document_title"`
	Status        enums.RequestStatus `gorm:"column:status;type:text;not null;default:'pending';index"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	ProcessedAt   *time.Time          `gorm:"column:processed_at"`
}

func (a *ActivationRequest) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
