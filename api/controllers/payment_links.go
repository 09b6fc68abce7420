package controllers

import (
	"net/http"

	"github.com/lu-foet/notes-api/api/middleware"
	"github.com/lu-foet/notes-api/api/responses"
	"github.com/lu-foet/notes-api/internal/paymentlinks"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
	"github.com/lu-foet/notes-api/pkg/logger"
)

// AllocatePaymentLink hands the signed-in user a fresh checkout link from the
// pool. Every call consumes a new link.
func AllocatePaymentLink(svc paymentlinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "payment link service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.Allocate(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"payment_link": link.CheckoutURL})
	}
}
