package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/pkg/db/models"
)

// PublicItem is the catalog view exposed to visitors. The blob URL is
// deliberately absent; downloads go through the gated endpoint.
type PublicItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Branch    string    `json:"branch"`
	Semester  string    `json:"semester"`
	Subject   string    `json:"subject"`
	IsFree    bool      `json:"is_free"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminItem is the admin view including blob details.
type AdminItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Branch    string    `json:"branch"`
	Semester  string    `json:"semester"`
	Subject   string    `json:"subject"`
	BlobURL   string    `json:"blob_url"`
	BlobKey   string    `json:"blob_key"`
	IsFree    bool      `json:"is_free"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminListResult is one page of the admin catalog listing.
type AdminListResult struct {
	Items  []AdminItem `json:"items"`
	Cursor string      `json:"cursor,omitempty"`
}

func toPublicItem(document models.Document) PublicItem {
	return PublicItem{
		ID:        document.ID,
		Title:     document.Title,
		Branch:    document.Branch,
		Semester:  document.Semester,
		Subject:   document.Subject,
		IsFree:    document.IsFree,
		CreatedAt: document.CreatedAt,
	}
}

func toAdminItem(document models.Document) AdminItem {
	return AdminItem{
		ID:        document.ID,
		Title:     document.Title,
		Branch:    document.Branch,
		Semester:  document.Semester,
		Subject:   document.Subject,
		BlobURL:   document.BlobURL,
		BlobKey:   document.BlobKey,
		IsFree:    document.IsFree,
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}
}
