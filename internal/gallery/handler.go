package gallery

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/recordstore"
	"github.com/nke/backend/internal/response"
	"github.com/nke/backend/internal/upload"
)

const maxMultipartMemory = 32 << 20

// Handler holds HTTP handlers for gallery endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new gallery Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload gallery images
//	@Description	Upload up to 10 images; names[] pairs positionally with images[].
//	@Tags			gallery
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	response.Envelope{data=[]Image}
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/gallery [post]
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

	images, err := h.svc.AddBatch(r.Context(), files, upload.FormValues(r, "names"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, "Images uploaded successfully", images)
}

// List godoc
//
//	@Summary	List gallery images
//	@Tags		gallery
//	@Produce	json
//	@Security	BearerAuth
//	@Param		search	query		string	false	"Substring filter on name"
//	@Success	200		{object}	response.Envelope{data=[]Image}
//	@Router		/admin/gallery [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.svc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, images)
}

// Update godoc
//
//	@Summary		Update gallery image
//	@Description	Rename an image and optionally replace its file.
//	@Tags			gallery
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Image ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/gallery/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	var newFile *multipart.FileHeader
	if files := upload.FormFiles(r, "image"); len(files) > 0 {
		if err := upload.ImageRules.Check(files[0]); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		newFile = files[0]
	}

	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), r.FormValue("name"), newFile); err != nil {
		h.writeError(w, err)
		return
	}
	response.OKMessage(w, "Image updated successfully")
}

// Delete godoc
//
//	@Summary	Delete gallery image
//	@Tags		gallery
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Image ID"
//	@Success	200	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Router		/admin/gallery/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	response.OKMessage(w, "Image deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ValidationFailed(w, ve.Errors)
	case errors.Is(err, recordstore.ErrNotFound):
		response.NotFound(w, "Image not found")
	default:
		response.InternalError(w, err)
	}
}
