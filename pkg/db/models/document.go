package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the metadata record for one uploaded PDF. BlobURL is the stable
// retrieval URL returned by the blob host; BlobKey is the opaque handle needed
// to delete the binary later.
type Document struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Branch    string    `gorm:"column:branch;not null;index:idx_documents_catalog"`
	Semester  string    `gorm:"column:semester;not null;index:idx_documents_catalog"`
	Subject   string    `gorm:"column:subject;not null;index:idx_documents_catalog"`
	BlobURL   string    `gorm:"column:blob_url;not null"`
	BlobKey   string    `gorm:"column:blob_key;not null"`
	IsFree    bool      `gorm:"column:is_free;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *Document) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
