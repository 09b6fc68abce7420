package paymentlinks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lu-foet/notes-api/pkg/db/models"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
)

type linksRepository interface {
	Create(ctx context.Context, link *models.PaymentLink) (*models.PaymentLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.PaymentLink, error)
	FindAssigned(ctx context.Context, email string) (*models.PaymentLink, error)
	AllocateFirstUnused(ctx context.Context, email string, now time.Time) (*models.PaymentLink, error)
}

// Service manages the pool of one-time Razorpay checkout links.
type Service interface {
	Allocate(ctx context.Context, email string) (*models.PaymentLink, error)
	LookupAssigned(ctx context.Context, email string) (*models.PaymentLink, error)
	AddLink(ctx context.Context, checkoutURL string) (*models.PaymentLink, error)
	RemoveLink(ctx context.Context, id uuid.UUID) error
	ListLinks(ctx context.Context) (*ListResult, error)
}

type service struct {
	repo linksRepository
	now  func() time.Time
}

// NewService builds the payment link service.
func NewService(repo linksRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment link repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Allocate hands the caller the oldest unused link and marks it used. Each
// call consumes a fresh link; an exhausted pool is an expected operational
// condition, not a failure of the caller's request.
func (s *service) Allocate(ctx context.Context, email string) (*models.PaymentLink, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user email required")
	}

	link, err := s.repo.AllocateFirstUnused(ctx, email, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No payment links available at the moment. Please contact admin.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate payment link")
	}
	return link, nil
}

// LookupAssigned returns the link most recently allocated to the email.
func (s *service) LookupAssigned(ctx context.Context, email string) (*models.PaymentLink, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user email required")
	}

	link, err := s.repo.FindAssigned(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No payment link found. Please get a payment link first.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup assigned payment link")
	}
	return link, nil
}

// AddLink adds a checkout link to the pool after checking it points at the
// payment provider.
func (s *service) AddLink(ctx context.Context, checkoutURL string) (*models.PaymentLink, error) {
	checkoutURL = strings.TrimSpace(checkoutURL)
	if checkoutURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment link required")
	}
	if !isRazorpayURL(checkoutURL) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid Razorpay link")
	}

	created, err := s.repo.Create(ctx, &models.PaymentLink{CheckoutURL: checkoutURL})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment link")
	}
	return created, nil
}

// RemoveLink deletes a link from the pool.
func (s *service) RemoveLink(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "link id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment link not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment link")
	}
	return nil
}

// ListLinks returns every link with the used/unused partition counts.
func (s *service) ListLinks(ctx context.Context) (*ListResult, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment links")
	}

	result := &ListResult{Items: make([]ListItem, len(rows))}
	for i, row := range rows {
		result.Items[i] = toListItem(row)
		if row.IsUsed {
			result.UsedCount++
		} else {
			result.UnusedCount++
		}
	}
	return result, nil
}

// isRazorpayURL accepts provider-hosted checkout URLs (razorpay.com and the
// rzp.io shortener), including subdomains.
func isRazorpayURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range []string{"razorpay.com", "rzp.io"} {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
