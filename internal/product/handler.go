package product

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/recordstore"
	"github.com/nke/backend/internal/response"
	"github.com/nke/backend/internal/upload"
)

const maxMultipartMemory = 32 << 20

// Handler holds HTTP handlers for product and catalogue endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new product Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Add godoc
//
//	@Summary		Add product
//	@Description	Create a product with up to 10 images uploaded as multipart form data.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	response.Envelope{data=Product}
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/products/add [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	files := upload.FormFiles(r, "images")
	if err := upload.ImageRules.CheckBatch(files); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.Add(r.Context(), inputFromForm(r), files)
	if err != nil {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			response.ValidationFailed(w, ve.Errors)
			return
		}
		response.InternalError(w, err)
		return
	}
	response.Created(w, "Product added successfully", p)
}

// Update godoc
//
//	@Summary		Update product
//	@Description	Update product fields; existingImages is a JSON list of assets to keep, new images are appended.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/products-edit/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	files := upload.FormFiles(r, "images")
	if err := upload.ImageRules.CheckBatch(files); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	keep := parseKeepList(r.FormValue("existingImages"))
	if err := h.svc.Update(r.Context(), id, inputFromForm(r), keep, files); err != nil {
		h.writeError(w, err, "Product not found")
		return
	}
	response.OKMessage(w, "Product updated successfully")
}

// Delete godoc
//
//	@Summary	Delete product
//	@Tags		products
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Router		/admin/products-del/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "Product not found")
		return
	}
	response.OKMessage(w, "Product deleted successfully")
}

// List godoc
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		search	query		string	false	"Substring filter on name or category"
//	@Success	200		{object}	response.Envelope{data=[]Product}
//	@Router		/products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, products)
}

// Get godoc
//
//	@Summary	Get product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	response.Envelope{data=Product}
//	@Failure	404	{object}	response.Envelope
//	@Router		/products/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Product not found")
		return
	}
	response.OK(w, p)
}

// ByCategory godoc
//
//	@Summary	List products in a category
//	@Tags		products
//	@Produce	json
//	@Param		category	path		string	true	"Category"
//	@Success	200			{object}	response.Envelope{data=[]Product}
//	@Router		/products/category/{category} [get]
func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, products)
}

// Grouped godoc
//
//	@Summary		Public product listing
//	@Description	Products grouped by the site's fixed category list, with catalogue links.
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]CategoryGroup}
//	@Router			/user/products [get]
func (h *Handler) Grouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Grouped(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, groups)
}

// UploadCatalogue godoc
//
//	@Summary		Upload category catalogue
//	@Description	Attach a single PDF catalogue to a category, replacing any existing one.
//	@Tags			catalogues
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	response.Envelope{data=CategoryCatalogue}
//	@Failure		400	{object}	response.Envelope
//	@Router			/admin/category-catalogue/upload [post]
func (h *Handler) UploadCatalogue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	// The category check runs before any upload so a missing category never
	// leaves a blob behind.
	category := r.FormValue("category")
	if category == "" {
		response.BadRequest(w, "Category is required")
		return
	}

	files := upload.FormFiles(r, "categoryCatalogue")
	if len(files) == 0 {
		response.BadRequest(w, "Catalogue file is required")
		return
	}
	if err := upload.CatalogueRules.Check(files[0]); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	cc, err := h.svc.ReplaceCatalogue(r.Context(), category, files[0])
	if err != nil {
		h.writeError(w, err, "Catalogue not found for this category")
		return
	}
	response.Created(w, "Category catalogue uploaded successfully", cc)
}

// GetCatalogue godoc
//
//	@Summary	Get category catalogue
//	@Tags		catalogues
//	@Produce	json
//	@Param		category	path		string	true	"Category"
//	@Success	200			{object}	response.Envelope{data=CategoryCatalogue}
//	@Failure	404			{object}	response.Envelope
//	@Router		/products/catalogue/{category} [get]
func (h *Handler) GetCatalogue(w http.ResponseWriter, r *http.Request) {
	cc, err := h.svc.GetCatalogue(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.writeError(w, err, "Catalogue not found for this category")
		return
	}
	response.OK(w, cc)
}

// DeleteCatalogue godoc
//
//	@Summary	Delete category catalogue
//	@Tags		catalogues
//	@Produce	json
//	@Security	BearerAuth
//	@Param		category	path		string	true	"Category"
//	@Success	200			{object}	response.Envelope
//	@Failure	404			{object}	response.Envelope
//	@Router		/admin/category-catalogue/{category} [delete]
func (h *Handler) DeleteCatalogue(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCatalogue(r.Context(), chi.URLParam(r, "category")); err != nil {
		h.writeError(w, err, "Catalogue not found for this category")
		return
	}
	response.OKMessage(w, "Category catalogue deleted successfully")
}

// writeError maps service errors onto the API's status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error, notFoundMsg string) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ValidationFailed(w, ve.Errors)
	case upload.IsReject(err):
		response.BadRequest(w, err.Error())
	case errors.Is(err, recordstore.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	default:
		response.InternalError(w, err)
	}
}

func inputFromForm(r *http.Request) Input {
	return Input{
		Name:        r.FormValue("name"),
		Brand:       r.FormValue("brand"),
		Category:    r.FormValue("category"),
		Price:       r.FormValue("price"),
		ModelNo:     r.FormValue("modelNo"),
		Warranty:    r.FormValue("warranty"),
		StockStatus: r.FormValue("stockStatus"),
		Description: r.FormValue("description"),
		Specs:       r.FormValue("specs"),
	}
}
