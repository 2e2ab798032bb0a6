package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/payload"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

type authorHTTPHandler struct {
	authorUsecase usecase.AuthorUsecase
	validator     *validator.Validator
}

func (h *authorHTTPHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authorUsecase.ListAuthors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, authors)
}

func (h *authorHTTPHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	author, err := h.authorUsecase.GetAuthor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, author)
}

func (h *authorHTTPHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateAuthorRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	author, err := h.authorUsecase.CreateAuthor(r.Context(), usecase.CreateAuthorParams{
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: req.BirthDate,
		Avatar:    req.Avatar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusCreated, author)
}

func (h *authorHTTPHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateAuthorRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	author, err := h.authorUsecase.UpdateAuthor(r.Context(), chi.URLParam(r, "id"), usecase.UpdateAuthorParams{
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: req.BirthDate,
		Avatar:    req.Avatar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, author)
}

func (h *authorHTTPHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	if err := h.authorUsecase.DeleteAuthor(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteMessage(w, http.StatusOK, "author deleted")
}

func (h *authorHTTPHandler) ListAuthorBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.authorUsecase.ListAuthorBlogPosts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, posts)
}

func (h *authorHTTPHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	file, closeFile, err := uploadedFile(w, r, "avatar")
	defer closeFile()
	if err != nil {
		writeError(w, r, err)
		return
	}

	author, err := h.authorUsecase.UpdateAvatar(r.Context(), chi.URLParam(r, "id"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, author)
}
