package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/payload"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

type passwordResetHTTPHandler struct {
	passwordResetUsecase usecase.PasswordResetUsecase
	validator            *validator.Validator
}

// RequestPasswordReset answers 202 whether or not the email is registered.
func (h *passwordResetHTTPHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req payload.RequestPasswordResetRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteMessage(w, http.StatusAccepted, "if the email is registered, a reset link is on its way")
}

func (h *passwordResetHTTPHandler) ValidatePasswordResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.passwordResetUsecase.ValidatePasswordResetToken(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteMessage(w, http.StatusOK, "password reset token is valid")
}

func (h *passwordResetHTTPHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.passwordResetUsecase.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteMessage(w, http.StatusOK, "password updated")
}
