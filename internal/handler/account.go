package handler

import (
	"errors"
	"net/http"

	"tradehub-api/internal/middleware"
	"tradehub-api/internal/service"
	"tradehub-api/pkg/apierror"
	"tradehub-api/pkg/response"
)

// AccountHandler serves the viewer's own profile.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Me handles GET /user: the authenticated viewer's profile.
// A missing record for an authenticated id is a server-side integrity
// fault, not a 404 -- auth already validated the id.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	if viewer == "" {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	profile, err := h.accounts.Profile(r.Context(), viewer)
	if err != nil {
		if errors.Is(err, service.ErrUnknownViewer) {
			response.Error(w, apierror.InternalError("account record missing"))
			return
		}
		response.Error(w, apierror.InternalError("failed to load profile"))
		return
	}

	response.OK(w, profile)
}
