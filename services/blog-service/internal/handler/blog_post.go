package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/payload"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/media"
	"github.com/vasapolrittideah/strive-blog/shared/middleware"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

type blogPostHTTPHandler struct {
	blogPostUsecase usecase.BlogPostUsecase
	validator       *validator.Validator
}

func (h *blogPostHTTPHandler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blogPostUsecase.ListBlogPosts(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, posts)
}

func (h *blogPostHTTPHandler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.blogPostUsecase.GetBlogPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, post)
}

// CreateBlogPost accepts a JSON body or a multipart form carrying an optional cover
// image.
func (h *blogPostHTTPHandler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req payload.CreateBlogPostRequest
	var cover *media.File

	if isMultipart(r) {
		if err := parseMultipart(w, r); err != nil {
			writeError(w, r, err)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		if err := decodeForm(r.MultipartForm.Value, &req); err != nil {
			writeError(w, r, err)
			return
		}

		file, closeFile, err := formFile(r, "cover")
		defer closeFile()
		if err != nil {
			writeError(w, r, err)
			return
		}
		cover = file
	} else if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.blogPostUsecase.CreateBlogPost(r.Context(), usecase.CreateBlogPostParams{
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		ReadTime: model.ReadTime{
			Value: req.ReadTime.Value,
			Unit:  req.ReadTime.Unit,
		},
		Author:      req.Author,
		AuthorID:    claims.AuthorID,
		AuthorEmail: claims.Email,
		Cover:       req.Cover,
		CoverFile:   cover,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusCreated, post)
}

func (h *blogPostHTTPHandler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateBlogPostRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	params := usecase.UpdateBlogPostParams{
		Category: req.Category,
		Title:    req.Title,
		Cover:    req.Cover,
		Author:   req.Author,
		Content:  req.Content,
	}
	if req.ReadTime != nil {
		params.ReadTimeValue = req.ReadTime.Value
		params.ReadTimeUnit = req.ReadTime.Unit
	}

	post, err := h.blogPostUsecase.UpdateBlogPost(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, post)
}

func (h *blogPostHTTPHandler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	if err := h.blogPostUsecase.DeleteBlogPost(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteMessage(w, http.StatusOK, "blog post deleted")
}

func (h *blogPostHTTPHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	file, closeFile, err := uploadedFile(w, r, "cover")
	defer closeFile()
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.blogPostUsecase.UpdateCover(r.Context(), chi.URLParam(r, "id"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, post)
}
