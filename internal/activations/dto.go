package activations

import (
	"time"

	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/pkg/db/models"
	"github.com/lu-foet/notes-api/pkg/enums"
)

// ListItem is the admin review view of a request. User and document display
// fields are the denormalized copies captured at submission time.
type ListItem struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	UserEmail     string              `json:"user_email"`
	UserName      string              `json:"user_name"`
	LinkID        uuid.UUID           `json:"link_id"`
	DocumentID    *uuid.UUID          `json:"document_id,omitempty"`
	DocumentTitle string              `json:"document_title"`
	Status        enums.RequestStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	ProcessedAt   *time.Time          `json:"processed_at,omitempty"`
}

func toListItem(request models.ActivationRequest) ListItem {
	return ListItem{
		ID:            request.ID,
		UserID:        request.UserID,
		UserEmail:     request.UserEmail,
		UserName:      request.UserName,
		LinkID:        request.LinkID,
		DocumentID:    request.DocumentID,
		DocumentTitle: request.DocumentTitle,
		Status:        request.Status,
		CreatedAt:     request.CreatedAt,
		ProcessedAt:   request.ProcessedAt,
	}
}
