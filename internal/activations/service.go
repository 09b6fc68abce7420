package activations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lu-foet/notes-api/pkg/db/models"
	"github.com/lu-foet/notes-api/pkg/enums"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
)

type requestsRepository interface {
	Create(ctx context.Context, request *models.ActivationRequest) (*models.ActivationRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ActivationRequest, error)
	List(ctx context.Context, status *enums.RequestStatus) ([]models.ActivationRequest, error)
	MarkApproved(ctx context.Context, requestID, userID, documentID uuid.UUID, at time.Time) error
	MarkRejected(ctx context.Context, requestID uuid.UUID, at time.Time) error
}

type documentsRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

type grantsChecker interface {
	Exists(ctx context.Context, userID, documentID uuid.UUID) (bool, error)
}

type assignedLinkLookup interface {
	FindAssigned(ctx context.Context, email string) (*models.PaymentLink, error)
}

// SubmitInput carries the authenticated user's identity plus the document
// they claim to have paid for.
type SubmitInput struct {
	UserID     uuid.UUID
	UserEmail  string
	UserName   string
	DocumentID uuid.UUID
}

// Service runs the manual activation workflow: submit → pending →
// approved | rejected.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.ActivationRequest, error)
	Approve(ctx context.Context, requestID, userID, documentID uuid.UUID) (*models.ActivationRequest, error)
	Reject(ctx context.Context, requestID uuid.UUID) (*models.ActivationRequest, error)
	ListRequests(ctx context.Context, statusFilter string) ([]ListItem, error)
}

type service struct {
	repo      requestsRepository
	documents documentsRepository
	grants    grantsChecker
	links     assignedLinkLookup
	now       func() time.Time
}

// NewService builds the activation workflow service.
func NewService(repo requestsRepository, documents documentsRepository, grants grantsChecker, links assignedLinkLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activation repository required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document repository required")
	}
	if grants == nil {
		return nil, fmt.Errorf("grants repository required")
	}
	if links == nil {
		return nil, fmt.Errorf("payment link repository required")
	}
	return &service{
		repo:      repo,
		documents: documents,
		grants:    grants,
		links:     links,
		now:       time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.ActivationRequest, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if input.UserEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user email missing")
	}
	if input.DocumentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}

	document, err := s.documents.FindByID(ctx, input.DocumentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
	}
	if document.IsFree {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document is free and needs no activation")
	}

	owned, err := s.grants.Exists(ctx, input.UserID, document.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check document grant")
	}
	if owned {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "document already purchased")
	}

	link, err := s.links.FindAssigned(ctx, input.UserEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No payment link found. Please get a payment link first.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup assigned payment link")
	}

	documentID := document.ID
	request := &models.ActivationRequest{
		UserID:        input.UserID,
		UserEmail:     input.UserEmail,
		UserName:      input.UserName,
		LinkID:        link.ID,
		DocumentID:    &documentID,
		DocumentTitle: document.Title,
		Status:        enums.RequestStatusPending,
	}

	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create activation request")
	}
	return created, nil
}

func (s *service) Approve(ctx context.Context, requestID, userID, documentID uuid.UUID) (*models.ActivationRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}

	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != enums.RequestStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already finalized")
	}
	if request.DocumentID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request predates per-document activation; ask the user to resubmit")
	}
	if *request.DocumentID != documentID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "document does not match the request")
	}
	if request.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user does not match the request")
	}

	at := s.now().UTC()
	if err := s.repo.MarkApproved(ctx, requestID, userID, documentID, at); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// lost a race with another admin action
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already finalized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve activation request")
	}

	request.Status = enums.RequestStatusApproved
	request.ProcessedAt = &at
	return request, nil
}

func (s *service) Reject(ctx context.Context, requestID uuid.UUID) (*models.ActivationRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}

	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case enums.RequestStatusRejected:
		// repeat rejection is a no-op
		return request, nil
	case enums.RequestStatusApproved:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already approved")
	}

	at := s.now().UTC()
	if err := s.repo.MarkRejected(ctx, requestID, at); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already finalized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject activation request")
	}

	request.Status = enums.RequestStatusRejected
	request.ProcessedAt = &at
	return request, nil
}

func (s *service) ListRequests(ctx context.Context, statusFilter string) ([]ListItem, error) {
	var status *enums.RequestStatus
	if statusFilter != "" {
		parsed, err := enums.ParseRequestStatus(statusFilter)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		status = &parsed
	}

	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activation requests")
	}

	items := make([]ListItem, len(rows))
	for i, row := range rows {
		items[i] = toListItem(row)
	}
	return items, nil
}

func (s *service) findRequest(ctx context.Context, requestID uuid.UUID) (*models.ActivationRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activation request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup activation request")
	}
	return request, nil
}
