package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/pkg/db/models"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
)

type grantsRepository interface {
	Grant(ctx context.Context, userID, documentID uuid.UUID) error
	Exists(ctx context.Context, userID, documentID uuid.UUID) (bool, error)
	ListDocumentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Service answers the single question the rest of the system asks: may this
// user download this document? Free documents are readable by anyone,
// including anonymous visitors. Paid documents require a grant. The legacy
// account-wide premium flag confers nothing.
type Service interface {
	HasAccess(ctx context.Context, userID *uuid.UUID, document *models.Document) (bool, error)
	GrantDocument(ctx context.Context, userID, documentID uuid.UUID) error
	ListGrantedDocumentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	grants grantsRepository
}

// NewService builds the access decision service.
func NewService(grants grantsRepository) (Service, error) {
	if grants == nil {
		return nil, fmt.Errorf("grants repository required")
	}
	return &service{grants: grants}, nil
}

func (s *service) HasAccess(ctx context.Context, userID *uuid.UUID, document *models.Document) (bool, error) {
	if document == nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "document is required")
	}
	if document.IsFree {
		return true, nil
	}
	if userID == nil || *userID == uuid.Nil {
		return false, nil
	}

	owned, err := s.grants.Exists(ctx, *userID, document.ID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check document grant")
	}
	return owned, nil
}

func (s *service) GrantDocument(ctx context.Context, userID, documentID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if documentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}
	if err := s.grants.Grant(ctx, userID, documentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record document grant")
	}
	return nil
}

func (s *service) ListGrantedDocumentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ids, err := s.grants.ListDocumentIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list document grants")
	}
	return ids, nil
}
