package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/payload"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/middleware"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

type commentHTTPHandler struct {
	commentUsecase usecase.CommentUsecase
	validator      *validator.Validator
}

func (h *commentHTTPHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentUsecase.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, comments)
}

func (h *commentHTTPHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.commentUsecase.GetComment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, comment)
}

func (h *commentHTTPHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req payload.AddCommentRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		if req.Email == "" {
			req.Email = claims.Email
		}
		if req.Name == "" {
			req.Name = claims.Email
		}
	}

	comment, err := h.commentUsecase.AddComment(r.Context(), chi.URLParam(r, "id"), usecase.AddCommentParams{
		Name:    req.Name,
		Email:   req.Email,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusCreated, comment)
}

func (h *commentHTTPHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateCommentRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.commentUsecase.UpdateComment(
		r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "commentId"),
		req.Content,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, comment)
}

func (h *commentHTTPHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.commentUsecase.DeleteComment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteMessage(w, http.StatusOK, "comment deleted")
}
