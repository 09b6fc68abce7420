package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lu-foet/notes-api/api/responses"
	"github.com/lu-foet/notes-api/api/validators"
	"github.com/lu-foet/notes-api/internal/catalog"
	"github.com/lu-foet/notes-api/pkg/config"
	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
	"github.com/lu-foet/notes-api/pkg/logger"
)

const multipartMemoryBytes = 8 << 20

// UploadDocument accepts a multipart PDF upload with its catalog metadata.
func UploadDocument(svc catalog.Service, uploadCfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		maxBytes := int64(uploadCfg.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required"))
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "only PDF files are accepted"))
			return
		}

		isFree := false
		if raw := r.FormValue("is_free"); raw != "" {
			isFree, err = strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid is_free"))
				return
			}
		}

		document, err := svc.Upload(r.Context(), catalog.UploadInput{
			Title:    r.FormValue("title"),
			Branch:   r.FormValue("branch"),
			Semester: r.FormValue("semester"),
			Subject:  r.FormValue("subject"),
			IsFree:   isFree,
			Content:  file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":       document.ID,
			"title":    document.Title,
			"blob_url": document.BlobURL,
			"is_free":  document.IsFree,
		})
	}
}

// ListAllDocuments pages through the full catalog for the admin console.
func ListAllDocuments(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.QueryInt(r, "limit", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListAll(r.Context(), catalog.ListParams{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DeleteDocument removes a catalog entry and its stored blob.
func DeleteDocument(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), documentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type setDocumentFreeRequest struct {
	IsFree *bool `json:"is_free" validate:"required"`
}

// SetDocumentFree flips a document between the free and premium tiers.
func SetDocumentFree(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setDocumentFreeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		document, err := svc.SetFree(r.Context(), documentID, *body.IsFree)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"id":      document.ID,
			"is_free": document.IsFree,
		})
	}
}
