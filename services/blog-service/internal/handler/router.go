package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/middleware"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

// RouterConfig holds the HTTP-facing settings of the router.
type RouterConfig struct {
	AllowedOrigins []string
	// AdminEmails guards author deletion with the User-Email gate when not empty.
	AdminEmails []string
	FrontendURL string
}

// Dependencies are the use cases and collaborators served by the router.
type Dependencies struct {
	AuthorUsecase        usecase.AuthorUsecase
	BlogPostUsecase      usecase.BlogPostUsecase
	CommentUsecase       usecase.CommentUsecase
	AuthUsecase          usecase.AuthUsecase
	PasswordResetUsecase usecase.PasswordResetUsecase
	TokenValidator       middleware.TokenValidator
	Validator            *validator.Validator
	Logger               *zerolog.Logger
}

// NewRouter mounts the REST API under /api and a liveness probe under /health.
func NewRouter(cfg RouterConfig, deps Dependencies) http.Handler {
	authorHandler := &authorHTTPHandler{
		authorUsecase: deps.AuthorUsecase,
		validator:     deps.Validator,
	}
	blogPostHandler := &blogPostHTTPHandler{
		blogPostUsecase: deps.BlogPostUsecase,
		validator:       deps.Validator,
	}
	commentHandler := &commentHTTPHandler{
		commentUsecase: deps.CommentUsecase,
		validator:      deps.Validator,
	}
	authHandler := &authHTTPHandler{
		authUsecase: deps.AuthUsecase,
		validator:   deps.Validator,
		frontendURL: cfg.FrontendURL,
	}

	passwordResetHandler := &passwordResetHTTPHandler{
		passwordResetUsecase: deps.PasswordResetUsecase,
		validator:            deps.Validator,
	}

	authenticate := middleware.Authenticate(deps.TokenValidator)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.UserEmailHeader},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/authors", func(r chi.Router) {
			r.Get("/", authorHandler.ListAuthors)
			r.Post("/", authorHandler.CreateAuthor)
			r.Get("/{id}", authorHandler.GetAuthor)
			r.Put("/{id}", authorHandler.UpdateAuthor)
			if len(cfg.AdminEmails) > 0 {
				r.With(middleware.EmailGate(cfg.AdminEmails)).Delete("/{id}", authorHandler.DeleteAuthor)
			} else {
				r.Delete("/{id}", authorHandler.DeleteAuthor)
			}
			r.Get("/{id}/blogPosts", authorHandler.ListAuthorBlogPosts)
			r.Patch("/{id}/avatar", authorHandler.UpdateAvatar)
		})

		r.Route("/blogPosts", func(r chi.Router) {
			r.Get("/", blogPostHandler.ListBlogPosts)
			r.Get("/{id}", blogPostHandler.GetBlogPost)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)

				r.Post("/", blogPostHandler.CreateBlogPost)
				r.Put("/{id}", blogPostHandler.UpdateBlogPost)
				r.Delete("/{id}", blogPostHandler.DeleteBlogPost)
				r.Patch("/{id}/cover", blogPostHandler.UpdateCover)

				r.Get("/{id}/comments", commentHandler.ListComments)
				r.Post("/{id}/comments", commentHandler.AddComment)
				r.Get("/{id}/comments/{commentId}", commentHandler.GetComment)
				r.Put("/{id}/comments/{commentId}", commentHandler.UpdateComment)
				r.Delete("/{id}/comments/{commentId}", commentHandler.DeleteComment)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.With(authenticate).Get("/me", authHandler.Me)
			r.Post("/password-reset", passwordResetHandler.RequestPasswordReset)
			r.Get("/password-reset/{token}", passwordResetHandler.ValidatePasswordResetToken)
			r.Post("/password-reset/confirm", passwordResetHandler.ResetPassword)
			r.Get("/{provider}", authHandler.BeginOAuth)
			r.Get("/{provider}/callback", authHandler.CompleteOAuth)
		})
	})

	return r
}
