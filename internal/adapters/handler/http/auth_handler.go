package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type AuthHandler struct {
	identity       ports.IdentityService
	cookieDomain   string
	cookieSecure   bool
	cookieSameSite http.SameSite
	tokenTTL       time.Duration
}

func NewAuthHandler(identity ports.IdentityService, cookieDomain string, cookieSecure bool, cookieSameSite http.SameSite, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		identity:       identity,
		cookieDomain:   cookieDomain,
		cookieSecure:   cookieSecure,
		cookieSameSite: cookieSameSite,
		tokenTTL:       tokenTTL,
	}
}

type credentialRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// Login answers 200 for every outcome; the body says whether the person
// must enroll, was authenticated or gave the wrong secret.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.identity.Login(r.Context(), req.Name, req.Secret)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if outcome.Status == domain.LoginAuthenticated {
		h.setAccessTokenCookie(w, outcome.Token)
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *AuthHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.identity.EnrollAndLogin(r.Context(), req.Name, req.Secret)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAccessTokenCookie(w, outcome.Token)
	writeJSON(w, http.StatusCreated, outcome)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookieDomain})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: h.cookieSameSite,
		MaxAge:   int(h.tokenTTL.Seconds()),
	})
}
