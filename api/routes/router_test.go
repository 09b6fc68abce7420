package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/internal/activations"
	"github.com/lu-foet/notes-api/internal/auth"
	"github.com/lu-foet/notes-api/internal/catalog"
	"github.com/lu-foet/notes-api/internal/paymentlinks"
	pkgAuth "github.com/lu-foet/notes-api/pkg/auth"
	"github.com/lu-foet/notes-api/pkg/auth/session"
	"github.com/lu-foet/notes-api/pkg/config"
	"github.com/lu-foet/notes-api/pkg/db"
	"github.com/lu-foet/notes-api/pkg/db/models"
	"github.com/lu-foet/notes-api/pkg/enums"
	"github.com/lu-foet/notes-api/pkg/logger"
	"github.com/lu-foet/notes-api/pkg/redis"
	"github.com/lu-foet/notes-api/pkg/storage/cloudinary"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input auth.RegisterInput) (*auth.Session, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) AdminLogin(ctx context.Context, password string) (*auth.Session, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) Upload(ctx context.Context, input catalog.UploadInput) (*models.Document, error) {
	panic("unimplemented")
}

func (stubCatalogService) Delete(ctx context.Context, documentID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) SetFree(ctx context.Context, documentID uuid.UUID, free bool) (*models.Document, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListPublic(ctx context.Context, branch, semester, subject string) ([]catalog.PublicItem, error) {
	return []catalog.PublicItem{}, nil
}

func (stubCatalogService) ListAll(ctx context.Context, params catalog.ListParams) (*catalog.AdminListResult, error) {
	return &catalog.AdminListResult{}, nil
}

func (stubCatalogService) DownloadURL(ctx context.Context, userID *uuid.UUID, documentID uuid.UUID) (string, error) {
	return "https://example.com/blob.pdf", nil
}

func (stubCatalogService) ListPurchased(ctx context.Context, userID uuid.UUID) ([]catalog.PublicItem, error) {
	return []catalog.PublicItem{}, nil
}

type stubLinkService struct{}

func (stubLinkService) Allocate(ctx context.Context, email string) (*models.PaymentLink, error) {
	return &models.PaymentLink{CheckoutURL: "https://rzp.io/l/demo"}, nil
}

func (stubLinkService) LookupAssigned(ctx context.Context, email string) (*models.PaymentLink, error) {
	panic("unimplemented")
}

func (stubLinkService) AddLink(ctx context.Context, checkoutURL string) (*models.PaymentLink, error) {
	panic("unimplemented")
}

func (stubLinkService) RemoveLink(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubLinkService) ListLinks(ctx context.Context) (*paymentlinks.ListResult, error) {
	return &paymentlinks.ListResult{Items: []paymentlinks.ListItem{}}, nil
}

type stubActivationService struct{}

func (stubActivationService) Submit(ctx context.Context, input activations.SubmitInput) (*models.ActivationRequest, error) {
	panic("unimplemented")
}

func (stubActivationService) Approve(ctx context.Context, requestID, userID, documentID uuid.UUID) (*models.ActivationRequest, error) {
	panic("unimplemented")
}

func (stubActivationService) Reject(ctx context.Context, requestID uuid.UUID) (*models.ActivationRequest, error) {
	panic("unimplemented")
}

func (stubActivationService) ListRequests(ctx context.Context, statusFilter string) ([]activations.ListItem, error) {
	return []activations.ListItem{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		(*db.Client)(nil),
		(*redis.Client)(nil),
		(*cloudinary.Client)(nil),
		stubSessionChecker{},
		stubAuthService{},
		stubCatalogService{},
		stubLinkService{},
		stubActivationService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	payload := pkgAuth.AccessTokenPayload{
		Role: role,
		JTI:  session.NewAccessID(),
	}
	if role == enums.RoleUser {
		userID := uuid.New()
		payload.UserID = &userID
		payload.Email = "student@example.com"
		payload.Name = "Student"
	}
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/purchases", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/purchases", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for purchases got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payment-links/", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payment-links/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestPublicCatalogIsOpen(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/?branch=cse&semester=3&subject=dbms", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public catalog got %d", resp.Code)
	}
}

func TestDownloadAllowsAnonymous(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+uuid.NewString()+"/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous free download got %d", resp.Code)
	}
}

func TestAllocatePaymentLinkRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-links/allocate", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodPost, "/api/v1/payment-links/allocate", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for allocation got %d", resp.Code)
	}
}
