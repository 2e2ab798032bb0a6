package handler

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/strive-blog/services/web-service/internal/client"
	"github.com/vasapolrittideah/strive-blog/services/web-service/internal/session"
	"github.com/vasapolrittideah/strive-blog/shared/media"
	"github.com/vasapolrittideah/strive-blog/shared/middleware"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
)

// API is the subset of the blog API the views use.
type API interface {
	ListBlogPosts(ctx context.Context, title string) ([]client.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (*client.BlogPost, error)
	CreateBlogPost(ctx context.Context, token string, post client.NewBlogPost) (*client.BlogPost, error)
	AddComment(ctx context.Context, token, postID string, comment client.NewComment) (*client.Comment, error)
	CreateAuthor(ctx context.Context, author client.NewAuthor) (*client.Author, error)
	GetAuthor(ctx context.Context, id string) (*client.Author, error)
	ListAuthorBlogPosts(ctx context.Context, id string) ([]client.BlogPost, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, token string) (*client.Author, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ValidatePasswordResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type Config struct {
	// PublicAPIURL is where browsers reach the API, used for the OAuth buttons.
	PublicAPIURL string
	CookieSecure bool
}

type webHandler struct {
	api   API
	cfg   Config
	pages map[string]*template.Template
}

type homeData struct {
	Title string
	Posts []client.BlogPost
}

type postData struct {
	Post *client.BlogPost
}

type postForm struct {
	Title         string
	Category      string
	Content       string
	ReadTimeValue int
}

type registerForm struct {
	Name      string
	Surname   string
	Email     string
	BirthDate string
}

type loginData struct {
	Email string
}

type forgotData struct {
	Email string
	Sent  bool
}

type resetData struct {
	Token string
	Valid bool
}

type authorData struct {
	Author *client.Author
	Posts  []client.BlogPost
}

// NewRouter serves the frontend views. The sign-in state is resolved once at the root
// and shared by every view through the request context.
func NewRouter(cfg Config, api API, logger *zerolog.Logger) (http.Handler, error) {
	pages, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	h := &webHandler{api: api, cfg: cfg, pages: pages}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(forwardHeaders)
	r.Use(session.Middleware(api, cfg.CookieSecure))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", h.Home)
	r.Get("/post/{id}", h.Post)
	r.Post("/post/{id}/comments", h.AddComment)
	r.Get("/create", h.CreateForm)
	r.Post("/create", h.Create)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/forgot-password", h.ForgotPasswordForm)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Get("/reset-password", h.ResetPasswordForm)
	r.Post("/reset-password", h.ResetPassword)
	r.Get("/logout", h.Logout)
	r.Post("/logout", h.Logout)
	r.Get("/authors/{id}", h.Author)

	return r, nil
}

func forwardHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(utilities.WithForwardedHeaders(r.Context(), r)))
	})
}

func (h *webHandler) Home(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))

	posts, err := h.api.ListBlogPosts(r.Context(), title)
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "home", flash, homeData{Title: title})
		return
	}

	h.render(w, r, http.StatusOK, "home", "", homeData{Title: title, Posts: posts})
}

func (h *webHandler) Post(w http.ResponseWriter, r *http.Request) {
	post, err := h.api.GetBlogPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "post", flash, postData{})
		return
	}

	h.render(w, r, http.StatusOK, "post", "", postData{Post: post})
}

func (h *webHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	state := session.FromContext(r.Context())
	if !state.LoggedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	postID := chi.URLParam(r, "id")
	content := strings.TrimSpace(r.FormValue("content"))

	_, err := h.api.AddComment(r.Context(), state.Token, postID, client.NewComment{Content: content})
	if err != nil {
		status, flash := h.apiFailure(r, err)
		post, _ := h.api.GetBlogPost(r.Context(), postID)
		h.render(w, r, status, "post", flash, postData{Post: post})
		return
	}

	http.Redirect(w, r, "/post/"+postID+"#comments", http.StatusSeeOther)
}

func (h *webHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	if !session.FromContext(r.Context()).LoggedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.render(w, r, http.StatusOK, "create", "", postForm{})
}

func (h *webHandler) Create(w http.ResponseWriter, r *http.Request) {
	state := session.FromContext(r.Context())
	if !state.LoggedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.render(w, r, http.StatusBadRequest, "create", "The form could not be read: "+err.Error(), postForm{})
		return
	}

	readTime, _ := strconv.Atoi(r.FormValue("readTime"))
	form := postForm{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Category:      strings.TrimSpace(r.FormValue("category")),
		Content:       r.FormValue("content"),
		ReadTimeValue: readTime,
	}

	cover, err := coverUpload(r)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, "create", err.Error(), form)
		return
	}

	post, err := h.api.CreateBlogPost(r.Context(), state.Token, client.NewBlogPost{
		Title:         form.Title,
		Category:      form.Category,
		Content:       form.Content,
		ReadTimeValue: form.ReadTimeValue,
		ReadTimeUnit:  "minutes",
		Cover:         cover,
	})
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "create", flash, form)
		return
	}

	http.Redirect(w, r, "/post/"+post.ID, http.StatusSeeOther)
}

func coverUpload(r *http.Request) (*client.Upload, error) {
	file, header, err := r.FormFile("cover")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("the cover could not be read: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, media.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("the cover could not be read: %w", err)
	}
	if len(content) > media.MaxFileSize {
		return nil, media.ErrFileTooLarge
	}
	if len(content) == 0 {
		return nil, nil
	}

	return &client.Upload{Filename: header.Filename, Content: content}, nil
}

func (h *webHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "", registerForm{})
}

// Register creates the author and signs them in right away.
func (h *webHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Surname:   strings.TrimSpace(r.FormValue("surname")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		BirthDate: r.FormValue("birthDate"),
	}
	password := r.FormValue("password")

	_, err := h.api.CreateAuthor(r.Context(), client.NewAuthor{
		Name:      form.Name,
		Surname:   form.Surname,
		Email:     form.Email,
		Password:  password,
		BirthDate: form.BirthDate,
	})
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "register", flash, form)
		return
	}

	token, err := h.api.Login(r.Context(), form.Email, password)
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "login", flash, loginData{Email: form.Email})
		return
	}

	session.SetToken(w, token, h.cfg.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginForm also completes OAuth sign-ins, which land here with ?token= or ?error=.
func (h *webHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if token := query.Get("token"); token != "" {
		session.SetToken(w, token, h.cfg.CookieSecure)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	flash := ""
	if reason := query.Get("error"); reason != "" {
		flash = "Sign-in failed: " + strings.ReplaceAll(reason, "_", " ")
	} else if query.Get("reset") != "" {
		flash = "Your password has been updated. Log in with the new one."
	}

	h.render(w, r, http.StatusOK, "login", flash, loginData{})
}

func (h *webHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))

	token, err := h.api.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "login", flash, loginData{Email: email})
		return
	}

	session.SetToken(w, token, h.cfg.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *webHandler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "forgot", "", forgotData{})
}

// ForgotPassword always reports the link as sent once the API accepts the request.
func (h *webHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))

	if err := h.api.RequestPasswordReset(r.Context(), email); err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "forgot", flash, forgotData{Email: email})
		return
	}

	h.render(w, r, http.StatusOK, "forgot", "", forgotData{Email: email, Sent: true})
}

// ResetPasswordForm is the page linked from the reset email.
func (h *webHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.render(w, r, http.StatusBadRequest, "reset", "This reset link is incomplete.", resetData{})
		return
	}

	if err := h.api.ValidatePasswordResetToken(r.Context(), token); err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "reset", flash, resetData{})
		return
	}

	h.render(w, r, http.StatusOK, "reset", "", resetData{Token: token, Valid: true})
}

func (h *webHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")

	if err := h.api.ResetPassword(r.Context(), token, r.FormValue("password")); err != nil {
		status, flash := h.apiFailure(r, err)
		// A rejected password keeps the form usable, a rejected token does not.
		valid := status == http.StatusBadRequest && h.api.ValidatePasswordResetToken(r.Context(), token) == nil
		h.render(w, r, status, "reset", flash, resetData{Token: token, Valid: valid})
		return
	}

	http.Redirect(w, r, "/login?reset=done", http.StatusSeeOther)
}

func (h *webHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.Clear(w, h.cfg.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *webHandler) Author(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	author, err := h.api.GetAuthor(r.Context(), id)
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "author", flash, authorData{})
		return
	}

	posts, err := h.api.ListAuthorBlogPosts(r.Context(), id)
	if err != nil {
		status, flash := h.apiFailure(r, err)
		h.render(w, r, status, "author", flash, authorData{Author: author})
		return
	}

	h.render(w, r, http.StatusOK, "author", "", authorData{Author: author, Posts: posts})
}

// apiFailure logs err and returns the status and flash message to show. Client errors
// reported by the API are shown as is.
func (h *webHandler) apiFailure(r *http.Request, err error) (int, string) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		hlog.FromRequest(r).Warn().Err(err).Msg("api rejected request")
		return apiErr.StatusCode, apiErr.Message
	}

	hlog.FromRequest(r).Error().Err(err).Msg("api request failed")
	return http.StatusBadGateway, "Something went wrong, please try again."
}
