package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/payload"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/middleware"
	"github.com/vasapolrittideah/strive-blog/shared/provider"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

type authHTTPHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.Validator
	frontendURL string
}

func (h *authHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.LoginResponse{Token: token})
}

func (h *authHTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	author, err := h.authUsecase.Me(r.Context(), claims.AuthorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, author)
}

func (h *authHTTPHandler) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	consentURL, err := h.authUsecase.BeginOAuth(r.Context(), chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, consentURL, http.StatusFound)
}

// CompleteOAuth handles the provider redirect and hands the token, or the reason of
// the failure, to the frontend login page.
func (h *authHTTPHandler) CompleteOAuth(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	providerName := chi.URLParam(r, "provider")

	if reason := query.Get("error"); reason != "" {
		hlog.FromRequest(r).Warn().Str("provider", providerName).Str("reason", reason).Msg("oauth consent denied")
		h.redirectToLogin(w, r, "error", reason)
		return
	}

	token, err := h.authUsecase.CompleteOAuth(r.Context(), providerName, query.Get("state"), query.Get("code"))
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownProvider) {
			writeError(w, r, err)
			return
		}

		hlog.FromRequest(r).Error().Err(err).Str("provider", providerName).Msg("oauth sign-in failed")

		switch {
		case errors.Is(err, usecase.ErrInvalidOAuthState):
			h.redirectToLogin(w, r, "error", "invalid_state")
		case errors.Is(err, provider.ErrNoVerifiedEmail):
			h.redirectToLogin(w, r, "error", "email_not_verified")
		default:
			h.redirectToLogin(w, r, "error", "oauth_failed")
		}
		return
	}

	h.redirectToLogin(w, r, "token", token)
}

func (h *authHTTPHandler) redirectToLogin(w http.ResponseWriter, r *http.Request, key, value string) {
	target := h.frontendURL + "/login?" + url.Values{key: {value}}.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}
