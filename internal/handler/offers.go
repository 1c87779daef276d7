package handler

import (
	"errors"
	"net/http"

	"tradehub-api/internal/middleware"
	"tradehub-api/internal/model"
	"tradehub-api/internal/service"
	"tradehub-api/pkg/apierror"
	"tradehub-api/pkg/response"
)

// OfferHandler serves the reconciled per-viewer offer listings.
type OfferHandler struct {
	offers *service.OfferService
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// OffersResponse is the body of the offer listing endpoints.
type OffersResponse struct {
	Offers []model.OfferView `json:"offers"`
}

// Bought handles GET /bought: offers the viewer is buying.
func (h *OfferHandler) Bought(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.RoleBuyer)
}

// Owned handles GET /owned: offers the viewer listed.
func (h *OfferHandler) Owned(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.RoleSeller)
}

func (h *OfferHandler) list(w http.ResponseWriter, r *http.Request, role service.Role) {
	viewer := middleware.GetViewer(r.Context())
	if viewer == "" {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	views, err := h.offers.Reconcile(r.Context(), viewer, role)
	if err != nil {
		if errors.Is(err, service.ErrProviderUnavailable) {
			response.Error(w, apierror.ServiceUnavailable("inventory unavailable"))
			return
		}
		response.Error(w, apierror.InternalError("failed to load offers"))
		return
	}

	response.OK(w, OffersResponse{Offers: views})
}
