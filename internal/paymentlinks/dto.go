package paymentlinks

import (
	"time"

	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/pkg/db/models"
)

// ListItem is the admin-facing view of a pool entry.
type ListItem struct {
	ID          uuid.UUID  `json:"id"`
	CheckoutURL string     `json:"checkout_url"`
	IsUsed      bool       `json:"is_used"`
	UsedBy      *string    `json:"used_by,omitempty"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListResult pairs the pool contents with its used/unused partition counts.
type ListResult struct {
	Items       []ListItem `json:"items"`
	UsedCount   int        `json:"used_count"`
	UnusedCount int        `json:"unused_count"`
}

func toListItem(link models.PaymentLink) ListItem {
	return ListItem{
		ID:          link.ID,
		CheckoutURL: link.CheckoutURL,
		IsUsed:      link.IsUsed,
		UsedBy:      link.UsedBy,
		UsedAt:      link.UsedAt,
		CreatedAt:   link.CreatedAt,
	}
}
