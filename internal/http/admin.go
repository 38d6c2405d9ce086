package httpapi

import (
	"net/http"
	"time"

	"github.com/andreasstove999/cafeteria-go/internal/auth"
)

type loginRequest struct {
	Key string `json:"key"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Key == "" || !h.adminKey.Check(req.Key) {
		h.log.Warn().Str("remote", r.RemoteAddr).Msg("admin login rejected")
		writeError(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	token, exp, err := h.tokens.Issue(auth.AdminSubject)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.log.Info().Str("remote", r.RemoteAddr).Time("expires_at", exp).Msg("admin login")
	writeJSON(w, http.StatusOK, loginResponse{Token: token, TokenType: "bearer", ExpiresAt: exp})
}
