package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"tradehub-api/internal/service"
	"tradehub-api/internal/steam"
	"tradehub-api/pkg/apierror"
	"tradehub-api/pkg/response"
)

// SummaryFetcher refreshes a public identity from Steam.
type SummaryFetcher interface {
	GetPlayerSummary(ctx context.Context, steamID string) (*steam.PlayerSummary, error)
}

// AuthHandler bridges the external login flow to local sessions. The
// OpenID handshake itself happens upstream; by the time these
// endpoints run, the steamid is already verified.
type AuthHandler struct {
	accounts    *service.AccountService
	sessions    *service.SessionService
	summaries   SummaryFetcher
	callbackKey string
}

// NewAuthHandler creates a new auth handler. summaries may be nil
// when no Steam API key is configured; callers must then supply name
// and avatar themselves.
func NewAuthHandler(
	accounts *service.AccountService,
	sessions *service.SessionService,
	summaries SummaryFetcher,
	callbackKey string,
) *AuthHandler {
	return &AuthHandler{
		accounts:    accounts,
		sessions:    sessions,
		summaries:   summaries,
		callbackKey: callbackKey,
	}
}

// SessionRequest is the login-callback payload.
type SessionRequest struct {
	SteamID string `json:"steamid"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
}

// SessionResponse carries the issued bearer token.
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// CreateSession handles POST /auth/session: upserts the identity and
// issues a session token. Called by the trusted login callback after
// OpenID verification.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h.callbackKey != "" && r.Header.Get("X-Callback-Key") != h.callbackKey {
		response.Error(w, apierror.Forbidden(""))
		return
	}

	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.SteamID == "" {
		response.Error(w, apierror.BadRequest("steamid is required"))
		return
	}

	// Refresh name/avatar from Steam when the callback did not carry them.
	if req.Name == "" && h.summaries != nil {
		summary, err := h.summaries.GetPlayerSummary(r.Context(), req.SteamID)
		if err != nil {
			response.Error(w, apierror.ServiceUnavailable("identity lookup unavailable"))
			return
		}
		req.Name = summary.Name
		req.Avatar = summary.Avatar
	}

	if _, err := h.accounts.LoginUpsert(r.Context(), req.SteamID, req.Name, req.Avatar); err != nil {
		response.Error(w, apierror.InternalError("failed to record identity"))
		return
	}

	token, err := h.sessions.Issue(r.Context(), req.SteamID)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to issue session"))
		return
	}

	response.OK(w, SessionResponse{
		Token:     token,
		ExpiresIn: 86400,
	})
}

// VerifyRequest is the body of the token verification endpoint.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Verify handles POST /auth/verify: reports whether a token is still
// valid, without extending it.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if _, err := h.sessions.Validate(r.Context(), req.Token); err != nil {
		response.OK(w, map[string]bool{"success": false})
		return
	}
	response.OK(w, map[string]bool{"success": true})
}

// Revoke handles POST /auth/revoke: invalidates the presented token.
func (h *AuthHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to revoke session"))
		return
	}

	response.OK(w, map[string]string{"status": "revoked"})
}
