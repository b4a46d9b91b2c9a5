package http

import (
	"encoding/json"
	"net/http"

	"github.com/chronopointe/pointage-go/internal/handler/http/response"
	"github.com/chronopointe/pointage-go/internal/service/auth"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	BadgeLogin(w http.ResponseWriter, r *http.Request)
	BadgeLogout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) AuthHandler {
	return &authHandlerImpl{authService: authService}
}

// BadgeLogin implements AuthHandler.
func (h *authHandlerImpl) BadgeLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.BadgeLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.authService.BadgeLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Badge issued", resp)
}

// BadgeLogout implements AuthHandler. Revokes the presented badge
// token; the kiosk rejects it on the next scan.
func (h *authHandlerImpl) BadgeLogout(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	if err := h.authService.BadgeLogout(r.Context(), token); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Badge revoked", nil)
}
