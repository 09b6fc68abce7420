package paymentlinks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lu-foet/notes-api/pkg/db/models"
)

// allocationBatch bounds how many unused candidates one allocation attempt
// loads before re-querying.
const allocationBatch = 10

// Repository exposes payment link persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payment link repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new unused link into the pool.
func (r *Repository) Create(ctx context.Context, link *models.PaymentLink) (*models.PaymentLink, error) {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// Delete removes a link from the pool. Returns gorm.ErrRecordNotFound when
// no row matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PaymentLink{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns every link, newest first.
func (r *Repository) List(ctx context.Context) ([]models.PaymentLink, error) {
	var rows []models.PaymentLink
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindAssigned returns the link most recently assigned to the email, or
// gorm.ErrRecordNotFound.
func (r *Repository) FindAssigned(ctx context.Context, email string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	err := r.db.WithContext(ctx).
		Where("used_by = ?", email).
		Order("used_at DESC").
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// AllocateFirstUnused flips the oldest unused link to used for the email.
// The flip is a conditional update guarded by is_used = false; if a
// concurrent allocation won the same candidate, the next one is tried.
// Returns gorm.ErrRecordNotFound once the pool is exhausted.
func (r *Repository) AllocateFirstUnused(ctx context.Context, email string, now time.Time) (*models.PaymentLink, error) {
	for {
		var candidates []models.PaymentLink
		err := r.db.WithContext(ctx).
			Where("is_used = ?", false).
			Order("created_at ASC").Order("id ASC").
			Limit(allocationBatch).
			Find(&candidates).Error
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, gorm.ErrRecordNotFound
		}

		for i := range candidates {
			candidate := candidates[i]
			res := r.db.WithContext(ctx).
				Model(&models.PaymentLink{}).
				Where("id = ? AND is_used = ?", candidate.ID, false).
				Updates(map[string]any{
					"is_used": true,
					"used_by": email,
					"used_at": now,
				})
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected == 1 {
				candidate.IsUsed = true
				candidate.UsedBy = &email
				usedAt := now
				candidate.UsedAt = &usedAt
				return &candidate, nil
			}
			// lost the race for this candidate, try the next
		}
	}
}
