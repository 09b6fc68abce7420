package controllers

import (
	"net/http"

	"github.com/lu-foet/notes-api/api/responses"
	"github.com/lu-foet/notes-api/api/validators"
	"github.com/lu-foet/notes-api/internal/paymentlinks"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
	"github.com/lu-foet/notes-api/pkg/logger"
)

type createPaymentLinkRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// CreatePaymentLink adds a checkout link to the pool.
func CreatePaymentLink(svc paymentlinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "payment link service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createPaymentLinkRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.AddLink(r.Context(), body.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":           link.ID,
			"checkout_url": link.CheckoutURL,
		})
	}
}

// ListPaymentLinks returns the pool with its used/unused counts.
func ListPaymentLinks(svc paymentlinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "payment link service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListLinks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DeletePaymentLink removes a link from the pool.
func DeletePaymentLink(svc paymentlinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "payment link service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		linkID, err := pathUUID(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveLink(r.Context(), linkID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
