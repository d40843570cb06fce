package enquiry

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/recordstore"
	"github.com/nke/backend/internal/response"
)

// Handler holds HTTP handlers for enquiry endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new enquiry Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Submit godoc
//
//	@Summary		Submit enquiry
//	@Description	Public endpoint for customers to submit a product enquiry.
//	@Tags			enquiries
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Input	true	"Enquiry"
//	@Success		201		{object}	response.Envelope{data=Enquiry}
//	@Failure		400		{object}	response.Envelope
//	@Router			/enquiry [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	e, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, "Enquiry submitted successfully", e)
}

// List godoc
//
//	@Summary	List enquiries
//	@Tags		enquiries
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.Envelope{data=[]Enquiry}
//	@Router		/admin/enquiries [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, enquiries)
}

type statusRequest struct {
	Status string `json:"status" example:"responded"`
}

// UpdateStatus godoc
//
//	@Summary	Update enquiry status
//	@Tags		enquiries
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"Enquiry ID"
//	@Param		request	body		statusRequest	true	"New status"
//	@Success	200		{object}	response.Envelope
//	@Failure	400		{object}	response.Envelope
//	@Failure	404		{object}	response.Envelope
//	@Router		/admin/enquiries/{id}/status [put]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Status == "" {
		response.BadRequest(w, "Status is required")
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.BadRequest(w, "Invalid status")
			return
		}
		h.writeError(w, err)
		return
	}
	response.OKMessage(w, "Enquiry status updated successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ValidationFailed(w, ve.Errors)
	case errors.Is(err, recordstore.ErrNotFound):
		response.NotFound(w, "Enquiry not found")
	default:
		response.InternalError(w, err)
	}
}
