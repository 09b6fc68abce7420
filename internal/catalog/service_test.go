package catalog

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lu-foet/notes-api/pkg/db/models"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
	"github.com/lu-foet/notes-api/pkg/storage/cloudinary"
)

type stubDocsRepo struct {
	documents map[uuid.UUID]*models.Document
}

func newStubDocsRepo() *stubDocsRepo {
	return &stubDocsRepo{documents: map[uuid.UUID]*models.Document{}}
}

func (s *stubDocsRepo) Create(ctx context.Context, document *models.Document) (*models.Document, error) {
	document.ID = uuid.New()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now().UTC()
	}
	s.documents[document.ID] = document
	return document, nil
}

func (s *stubDocsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	document, ok := s.documents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *document
	return &copied, nil
}

func (s *stubDocsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.documents[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *stubDocsRepo) SetFree(ctx context.Context, id uuid.UUID, free bool) error {
	document, ok := s.documents[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	document.IsFree = free
	return nil
}

func (s *stubDocsRepo) ListFiltered(ctx context.Context, branch, semester, subject string) ([]models.Document, error) {
	var rows []models.Document
	for _, document := range s.documents {
		if document.Branch == branch && document.Semester == semester && document.Subject == subject {
			rows = append(rows, *document)
		}
	}
	return rows, nil
}

func (s *stubDocsRepo) ListAll(ctx context.Context, opts listQuery) ([]models.Document, error) {
	var rows []models.Document
	for _, document := range s.documents {
		if opts.cursor != nil {
			if document.CreatedAt.After(opts.cursor.CreatedAt) || document.CreatedAt.Equal(opts.cursor.CreatedAt) {
				continue
			}
		}
		rows = append(rows, *document)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > opts.limit {
		rows = rows[:opts.limit]
	}
	return rows, nil
}

func (s *stubDocsRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Document, error) {
	var rows []models.Document
	for _, id := range ids {
		if document, ok := s.documents[id]; ok {
			rows = append(rows, *document)
		}
	}
	return rows, nil
}

type stubBlobs struct {
	uploads   []string
	destroyed []string
	uploadErr error
}

func (s *stubBlobs) Upload(ctx context.Context, content io.Reader, publicID string) (*cloudinary.UploadResult, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	_, _ = io.Copy(io.Discard, content)
	s.uploads = append(s.uploads, publicID)
	return &cloudinary.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/raw/upload/" + publicID,
		PublicID:  "lu-foet-notes/" + publicID,
	}, nil
}

func (s *stubBlobs) Destroy(ctx context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

type stubAccess struct {
	granted map[[2]uuid.UUID]bool
}

func newStubAccess() *stubAccess {
	return &stubAccess{granted: map[[2]uuid.UUID]bool{}}
}

func (s *stubAccess) HasAccess(ctx context.Context, userID *uuid.UUID, document *models.Document) (bool, error) {
	if document.IsFree {
		return true, nil
	}
	if userID == nil {
		return false, nil
	}
	return s.granted[[2]uuid.UUID{*userID, document.ID}], nil
}

func (s *stubAccess) ListGrantedDocumentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for key := range s.granted {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

type catalogFixture struct {
	svc    Service
	repo   *stubDocsRepo
	blobs  *stubBlobs
	access *stubAccess
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	repo := newStubDocsRepo()
	blobs := &stubBlobs{}
	access := newStubAccess()
	svc, err := NewService(repo, blobs, access)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &catalogFixture{svc: svc, repo: repo, blobs: blobs, access: access}
}

func (f *catalogFixture) upload(t *testing.T, title string, free bool) *models.Document {
	t.Helper()

	document, err := f.svc.Upload(context.Background(), UploadInput{
		Title:    title,
		Branch:   "CSE",
		Semester: "3",
		Subject:  "DBMS",
		IsFree:   free,
		Content:  strings.NewReader("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	return document
}

func TestUploadStoresBlobAndRow(t *testing.T) {
	f := newCatalogFixture(t)

	document := f.upload(t, "DBMS Unit 3", false)
	if len(f.blobs.uploads) != 1 {
		t.Fatalf("expected one blob upload, got %d", len(f.blobs.uploads))
	}
	if !strings.HasPrefix(f.blobs.uploads[0], "cse-3-dbms-") {
		t.Fatalf("unexpected public id %q", f.blobs.uploads[0])
	}
	if document.BlobURL == "" || document.BlobKey == "" {
		t.Fatalf("blob fields not recorded: %+v", document)
	}
}

func TestUploadValidatesMetadata(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.svc.Upload(context.Background(), UploadInput{
		Title:   "No slot",
		Content: strings.NewReader("x"),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.blobs.uploads) != 0 {
		t.Fatalf("invalid input must not reach blob storage")
	}
}

func TestDeleteDestroysBlobThenRow(t *testing.T) {
	f := newCatalogFixture(t)
	document := f.upload(t, "DBMS Unit 3", false)

	if err := f.svc.Delete(context.Background(), document.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(f.blobs.destroyed) != 1 || f.blobs.destroyed[0] != document.BlobKey {
		t.Fatalf("blob not destroyed: %v", f.blobs.destroyed)
	}
	if _, err := f.repo.FindByID(context.Background(), document.ID); err == nil {
		t.Fatalf("row should be gone")
	}
}

func TestDownloadFreeDocumentAnonymously(t *testing.T) {
	f := newCatalogFixture(t)
	document := f.upload(t, "Free sample", true)

	url, err := f.svc.DownloadURL(context.Background(), nil, document.ID)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if url != document.BlobURL {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestDownloadPaidDocumentGating(t *testing.T) {
	f := newCatalogFixture(t)
	document := f.upload(t, "Premium notes", false)
	userID := uuid.New()

	_, err := f.svc.DownloadURL(context.Background(), nil, document.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("anonymous download should be unauthorized, got %v", err)
	}

	_, err = f.svc.DownloadURL(context.Background(), &userID, document.ID)
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("ungranted download should be forbidden, got %v", err)
	}

	f.access.granted[[2]uuid.UUID{userID, document.ID}] = true
	url, err := f.svc.DownloadURL(context.Background(), &userID, document.ID)
	if err != nil || url != document.BlobURL {
		t.Fatalf("granted download failed: url=%q err=%v", url, err)
	}
}

func TestSetFreeTogglesGate(t *testing.T) {
	f := newCatalogFixture(t)
	document := f.upload(t, "Toggle me", false)

	updated, err := f.svc.SetFree(context.Background(), document.ID, true)
	if err != nil {
		t.Fatalf("set free failed: %v", err)
	}
	if !updated.IsFree {
		t.Fatalf("document should be free")
	}

	url, err := f.svc.DownloadURL(context.Background(), nil, document.ID)
	if err != nil || url == "" {
		t.Fatalf("freed document should download anonymously: %v", err)
	}
}

func TestListPublicRequiresAllFilters(t *testing.T) {
	f := newCatalogFixture(t)
	f.upload(t, "DBMS Unit 3", false)

	_, err := f.svc.ListPublic(context.Background(), "CSE", "", "DBMS")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	items, err := f.svc.ListPublic(context.Background(), "CSE", "3", "DBMS")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
}

func TestListAllPaginates(t *testing.T) {
	f := newCatalogFixture(t)
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		document := f.upload(t, "Doc", false)
		f.repo.documents[document.ID].CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}

	page, err := f.svc.ListAll(context.Background(), ListParams{Limit: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 3 || page.Cursor == "" {
		t.Fatalf("expected full page with cursor, got %d items cursor=%q", len(page.Items), page.Cursor)
	}

	rest, err := f.svc.ListAll(context.Background(), ListParams{Limit: 3, Cursor: page.Cursor})
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(rest.Items) != 2 || rest.Cursor != "" {
		t.Fatalf("expected final page of 2, got %d cursor=%q", len(rest.Items), rest.Cursor)
	}
}

func TestListPurchased(t *testing.T) {
	f := newCatalogFixture(t)
	owned := f.upload(t, "Owned", false)
	f.upload(t, "Not owned", false)
	userID := uuid.New()
	f.access.granted[[2]uuid.UUID{userID, owned.ID}] = true

	items, err := f.svc.ListPurchased(context.Background(), userID)
	if err != nil {
		t.Fatalf("list purchased failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != owned.ID {
		t.Fatalf("unexpected purchases: %+v", items)
	}
}
