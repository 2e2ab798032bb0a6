package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

// writeError translates use case and validation errors into HTTP responses. Unknown
// errors are logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validator.ValidationError
	var badRequest *requestError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &badRequest):
		utilities.WriteMessage(w, http.StatusBadRequest, badRequest.Error())
	case errors.As(err, &validationErr):
		message := validationErr.Error()
		if len(validationErr.Messages) > 0 {
			message = validationErr.Messages[0]
		}
		utilities.WriteMessage(w, http.StatusBadRequest, message)
	case errors.As(err, &maxBytesErr):
		utilities.WriteMessage(w, http.StatusBadRequest, usecase.ErrFileTooLarge.Error())
	case errors.Is(err, usecase.ErrAuthorNotFound),
		errors.Is(err, usecase.ErrBlogPostNotFound),
		errors.Is(err, usecase.ErrCommentNotFound),
		errors.Is(err, usecase.ErrUnknownProvider):
		utilities.WriteMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrInvalidID),
		errors.Is(err, usecase.ErrAuthorAlreadyExists),
		errors.Is(err, usecase.ErrNoFile),
		errors.Is(err, usecase.ErrUnsupportedMedia),
		errors.Is(err, usecase.ErrFileTooLarge),
		errors.Is(err, usecase.ErrResetTokenNotFound),
		errors.Is(err, usecase.ErrResetTokenAlreadyUsed),
		errors.Is(err, usecase.ErrResetTokenExpired):
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidOAuthState):
		utilities.WriteMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrVersionConflict):
		utilities.WriteMessage(w, http.StatusConflict, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		utilities.WriteMessage(w, http.StatusInternalServerError, "something went wrong")
	}
}

// requestError marks a request body that could not be decoded.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := utilities.ReadJSON(w, r, v); err != nil {
		return &requestError{err: err}
	}

	return nil
}
