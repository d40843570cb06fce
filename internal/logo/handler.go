package logo

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/recordstore"
	"github.com/nke/backend/internal/response"
	"github.com/nke/backend/internal/upload"
)

const maxMultipartMemory = 32 << 20

// Handler holds HTTP handlers for one logo listing.
type Handler struct {
	svc *Service
	// label is the capitalized entity name used in messages: "Client" or "Partner".
	label string
}

// NewHandler creates a logo Handler with the given display label.
func NewHandler(svc *Service, label string) *Handler {
	return &Handler{svc: svc, label: label}
}

// Upload godoc
//
//	@Summary		Upload logos
//	@Description	Upload up to 10 logo images, one record per image.
//	@Tags			logos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	response.Envelope{data=[]Logo}
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/clients [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	files := upload.FormFiles(r, "images")
	if len(files) == 0 {
		response.BadRequest(w, "No images uploaded")
		return
	}
	if err := upload.ImageRules.CheckBatch(files); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	logos, err := h.svc.AddBatch(r.Context(), files, r.FormValue("category"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, fmt.Sprintf("%d %s(s) uploaded successfully", len(logos), strings.ToLower(h.label)), logos)
}

// List godoc
//
//	@Summary	List logos
//	@Tags		logos
//	@Produce	json
//	@Param		search	query		string	false	"Substring filter on filename or category"
//	@Success	200		{object}	response.Envelope{data=[]Logo}
//	@Router		/clients [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logos, err := h.svc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, logos)
}

// Delete godoc
//
//	@Summary	Delete logo
//	@Tags		logos
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Logo ID"
//	@Success	200	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Router		/admin/clients/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	response.OKMessage(w, h.label+" deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ValidationFailed(w, ve.Errors)
	case errors.Is(err, recordstore.ErrNotFound):
		response.NotFound(w, h.label+" not found")
	default:
		response.InternalError(w, err)
	}
}
