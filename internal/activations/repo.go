package activations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lu-foet/notes-api/pkg/db/models"
	"github.com/lu-foet/notes-api/pkg/enums"
)

// Repository persists activation requests.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an activation request repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending request.
func (r *Repository) Create(ctx context.Context, request *models.ActivationRequest) (*models.ActivationRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindByID returns the request, or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ActivationRequest, error) {
	var request models.ActivationRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns requests newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.RequestStatus) ([]models.ActivationRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivationRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.ActivationRequest
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkApproved flips a pending request to approved and records the grant in
// one transaction. The status update is guarded by status = 'pending'; if it
// affects zero rows the request was already finalized and the transaction
// rolls back with gorm.ErrRecordNotFound. The grant insert is
// conflict-do-nothing, so re-approval after a partial failure cannot
// duplicate it.
func (r *Repository) MarkApproved(ctx context.Context, requestID, userID, documentID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ActivationRequest{}).
			Where("id = ? AND status = ?", requestID, enums.RequestStatusPending).
			Updates(map[string]any{
				"status":       enums.RequestStatusApproved,
				"processed_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		grant := &models.DocumentGrant{UserID: userID, DocumentID: documentID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(grant).Error; err != nil {
			return err
		}

		// legacy account-wide flag, kept in sync for reporting only
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("is_premium", true).Error
	})
}

// MarkRejected flips a pending request to rejected and stamps processing
// time. Returns gorm.ErrRecordNotFound when the request was not pending.
func (r *Repository) MarkRejected(ctx context.Context, requestID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.ActivationRequest{}).
		Where("id = ? AND status = ?", requestID, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":       enums.RequestStatusRejected,
			"processed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
