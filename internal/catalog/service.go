package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lu-foet/notes-api/pkg/db/models"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
	pkgpagination "github.com/lu-foet/notes-api/pkg/pagination"
	"github.com/lu-foet/notes-api/pkg/storage/cloudinary"
)

type documentsRepository interface {
	Create(ctx context.Context, document *models.Document) (*models.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetFree(ctx context.Context, id uuid.UUID, free bool) error
	ListFiltered(ctx context.Context, branch, semester, subject string) ([]models.Document, error)
	ListAll(ctx context.Context, opts listQuery) ([]models.Document, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Document, error)
}

type blobClient interface {
	Upload(ctx context.Context, content io.Reader, publicID string) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

type accessChecker interface {
	HasAccess(ctx context.Context, userID *uuid.UUID, document *models.Document) (bool, error)
	ListGrantedDocumentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// UploadInput holds the metadata and content for a new catalog entry.
type UploadInput struct {
	Title    string
	Branch   string
	Semester string
	Subject  string
	IsFree   bool
	Content  io.Reader
}

// ListParams holds cursor pagination inputs for the admin listing.
type ListParams struct {
	Limit  int
	Cursor string
}

// Service manages the document catalog and gates downloads behind the access
// check.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*models.Document, error)
	Delete(ctx context.Context, documentID uuid.UUID) error
	SetFree(ctx context.Context, documentID uuid.UUID, free bool) (*models.Document, error)
	ListPublic(ctx context.Context, branch, semester, subject string) ([]PublicItem, error)
	ListAll(ctx context.Context, params ListParams) (*AdminListResult, error)
	DownloadURL(ctx context.Context, userID *uuid.UUID, documentID uuid.UUID) (string, error)
	ListPurchased(ctx context.Context, userID uuid.UUID) ([]PublicItem, error)
}

type service struct {
	repo   documentsRepository
	blobs  blobClient
	access accessChecker
	now    func() time.Time
}

// NewService builds the catalog service.
func NewService(repo documentsRepository, blobs blobClient, access accessChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("document repository required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob client required")
	}
	if access == nil {
		return nil, fmt.Errorf("access checker required")
	}
	return &service{
		repo:   repo,
		blobs:  blobs,
		access: access,
		now:    time.Now,
	}, nil
}

// Upload pushes the PDF to blob storage first, then records the row. A failed
// insert leaves an orphan blob, which is cheaper than a row pointing nowhere.
func (s *service) Upload(ctx context.Context, input UploadInput) (*models.Document, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Branch = strings.TrimSpace(input.Branch)
	input.Semester = strings.TrimSpace(input.Semester)
	input.Subject = strings.TrimSpace(input.Subject)

	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Branch == "" || input.Semester == "" || input.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch, semester and subject are required")
	}
	if input.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}

	publicID := s.buildPublicID(input.Branch, input.Semester, input.Subject)
	result, err := s.blobs.Upload(ctx, input.Content, publicID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload document blob")
	}

	document := &models.Document{
		Title:    input.Title,
		Branch:   input.Branch,
		Semester: input.Semester,
		Subject:  input.Subject,
		BlobURL:  result.SecureURL,
		BlobKey:  result.PublicID,
		IsFree:   input.IsFree,
	}
	created, err := s.repo.Create(ctx, document)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document")
	}
	return created, nil
}

// Delete destroys the blob first, then removes the row. Blob destruction is
// idempotent on the provider side, so a retry after a partial failure
// converges.
func (s *service) Delete(ctx context.Context, documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}

	document, err := s.findDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if document.BlobKey != "" {
		if err := s.blobs.Destroy(ctx, document.BlobKey); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "destroy document blob")
		}
	}

	if err := s.repo.Delete(ctx, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete document")
	}
	return nil
}

func (s *service) SetFree(ctx context.Context, documentID uuid.UUID, free bool) (*models.Document, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}

	if err := s.repo.SetFree(ctx, documentID, free); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document free flag")
	}
	return s.findDocument(ctx, documentID)
}

// ListPublic returns one branch/semester/subject slot of the catalog. All
// three filters are required so the public surface never exposes a full dump.
func (s *service) ListPublic(ctx context.Context, branch, semester, subject string) ([]PublicItem, error) {
	branch = strings.TrimSpace(branch)
	semester = strings.TrimSpace(semester)
	subject = strings.TrimSpace(subject)
	if branch == "" || semester == "" || subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch, semester and subject are required")
	}

	rows, err := s.repo.ListFiltered(ctx, branch, semester, subject)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}

	items := make([]PublicItem, len(rows))
	for i, row := range rows {
		items[i] = toPublicItem(row)
	}
	return items, nil
}

func (s *service) ListAll(ctx context.Context, params ListParams) (*AdminListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{limit: pkgpagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.ListAll(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]AdminItem, len(rows))
	for i, row := range rows {
		items[i] = toAdminItem(row)
	}
	return &AdminListResult{Items: items, Cursor: nextCursor}, nil
}

// DownloadURL reveals the blob URL only after a fresh access check.
func (s *service) DownloadURL(ctx context.Context, userID *uuid.UUID, documentID uuid.UUID) (string, error) {
	if documentID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}

	document, err := s.findDocument(ctx, documentID)
	if err != nil {
		return "", err
	}

	allowed, err := s.access.HasAccess(ctx, userID, document)
	if err != nil {
		return "", err
	}
	if !allowed {
		if userID == nil {
			return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to download this document")
		}
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "document not purchased")
	}
	return document.BlobURL, nil
}

// ListPurchased returns the user's granted documents for the purchases view.
func (s *service) ListPurchased(ctx context.Context, userID uuid.UUID) ([]PublicItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	ids, err := s.access.ListGrantedDocumentIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchased documents")
	}

	items := make([]PublicItem, len(rows))
	for i, row := range rows {
		items[i] = toPublicItem(row)
	}
	return items, nil
}

func (s *service) findDocument(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
	}
	return document, nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = slugRe.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

// buildPublicID derives a readable, unique blob id from the catalog slot.
func (s *service) buildPublicID(branch, semester, subject string) string {
	parts := []string{slugify(branch), slugify(semester), slugify(subject)}
	return fmt.Sprintf("%s-%d", strings.Join(parts, "-"), s.now().UnixMilli())
}
