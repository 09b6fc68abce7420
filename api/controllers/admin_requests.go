package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/api/responses"
	"github.com/lu-foet/notes-api/api/validators"
	"github.com/lu-foet/notes-api/internal/activations"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
	"github.com/lu-foet/notes-api/pkg/logger"
)

// ListActivationRequests returns the review queue, optionally filtered by
// status.
func ListActivationRequests(svc activations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "activation service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListRequests(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

type approveActivationRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

// ApproveActivation grants the document and finalizes the request. The body
// echoes the user and document so a stale admin view cannot approve the wrong
// pair.
func ApproveActivation(svc activations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "activation service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body approveActivationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(body.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id"))
			return
		}
		documentID, err := uuid.Parse(body.DocumentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document_id"))
			return
		}

		request, err := svc.Approve(r.Context(), requestID, userID, documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"id":           request.ID,
			"status":       request.Status,
			"processed_at": request.ProcessedAt,
		})
	}
}

// RejectActivation declines a pending request. Repeating a rejection is a
// no-op.
func RejectActivation(svc activations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "activation service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Reject(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"id":           request.ID,
			"status":       request.Status,
			"processed_at": request.ProcessedAt,
		})
	}
}
