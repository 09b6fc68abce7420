package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lu-foet/notes-api/pkg/db/models"
)

// Repository persists per-document grants.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a grant repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Grant records that the user owns the document. Inserting an existing pair
// is a no-op, so the operation is idempotent.
func (r *Repository) Grant(ctx context.Context, userID, documentID uuid.UUID) error {
	grant := &models.DocumentGrant{
		UserID:     userID,
		DocumentID: documentID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(grant).Error
}

// GrantTx is Grant executed inside an existing transaction.
func (r *Repository) GrantTx(ctx context.Context, tx *gorm.DB, userID, documentID uuid.UUID) error {
	grant := &models.DocumentGrant{
		UserID:     userID,
		DocumentID: documentID,
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(grant).Error
}

// Exists reports whether the user already owns the document.
func (r *Repository) Exists(ctx context.Context, userID, documentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DocumentGrant{}).
		Where("user_id = ? AND document_id = ?", userID, documentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListDocumentIDs returns every document id granted to the user, newest first.
func (r *Repository) ListDocumentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.DocumentGrant{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("document_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
