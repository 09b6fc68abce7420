package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/api/middleware"
	"github.com/lu-foet/notes-api/api/responses"
	"github.com/lu-foet/notes-api/api/validators"
	"github.com/lu-foet/notes-api/internal/activations"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
	"github.com/lu-foet/notes-api/pkg/logger"
)

type submitActivationRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

// SubmitActivation files a pending activation request for the document the
// user claims to have paid for.
func SubmitActivation(svc activations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "activation service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitActivationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid identity"))
			return
		}
		documentID, err := uuid.Parse(body.DocumentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document_id"))
			return
		}

		request, err := svc.Submit(r.Context(), activations.SubmitInput{
			UserID:     userID,
			UserEmail:  middleware.EmailFromContext(r.Context()),
			UserName:   middleware.NameFromContext(r.Context()),
			DocumentID: documentID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":     request.ID,
			"status": request.Status,
		})
	}
}
