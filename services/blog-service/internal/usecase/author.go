package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
	"github.com/vasapolrittideah/strive-blog/shared/media"
	"github.com/vasapolrittideah/strive-blog/shared/security"
)

// AuthorUsecase defines the interface for author-related use cases.
type AuthorUsecase interface {
	ListAuthors(ctx context.Context) ([]*model.Author, error)
	GetAuthor(ctx context.Context, id string) (*model.Author, error)
	CreateAuthor(ctx context.Context, params CreateAuthorParams) (*model.Author, error)
	UpdateAuthor(ctx context.Context, id string, params UpdateAuthorParams) (*model.Author, error)
	DeleteAuthor(ctx context.Context, id string) error
	ListAuthorBlogPosts(ctx context.Context, id string) ([]*model.BlogPost, error)
	UpdateAvatar(ctx context.Context, id string, file *media.File) (*model.Author, error)
}

// CreateAuthorParams defines the parameters for registering an author.
type CreateAuthorParams struct {
	Name      string
	Surname   string
	Email     string
	Password  string
	BirthDate string
	Avatar    string
}

// UpdateAuthorParams defines the optional parameters for updating an author.
// Only the fields that are not nil will be updated.
type UpdateAuthorParams struct {
	Name      *string
	Surname   *string
	Email     *string
	Password  *string
	BirthDate *string
	Avatar    *string
}

const avatarFolder = "avatars"

type authorUsecase struct {
	authorRepo   repository.AuthorRepository
	identityRepo repository.IdentityRepository
	blogPostRepo repository.BlogPostRepository
	uploader     media.Uploader
	logger       *zerolog.Logger
}

func NewAuthorUsecase(
	authorRepo repository.AuthorRepository,
	identityRepo repository.IdentityRepository,
	blogPostRepo repository.BlogPostRepository,
	uploader media.Uploader,
	logger *zerolog.Logger,
) AuthorUsecase {
	return &authorUsecase{
		authorRepo:   authorRepo,
		identityRepo: identityRepo,
		blogPostRepo: blogPostRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

func (u *authorUsecase) ListAuthors(ctx context.Context) ([]*model.Author, error) {
	return u.authorRepo.ListAuthors(ctx)
}

func (u *authorUsecase) GetAuthor(ctx context.Context, id string) (*model.Author, error) {
	author, err := u.authorRepo.GetAuthor(ctx, id)
	if err != nil {
		return nil, mapAuthorErr(err)
	}

	return author, nil
}

func (u *authorUsecase) CreateAuthor(ctx context.Context, params CreateAuthorParams) (*model.Author, error) {
	author := &model.Author{
		Name:      params.Name,
		Surname:   params.Surname,
		Email:     params.Email,
		BirthDate: params.BirthDate,
		Avatar:    params.Avatar,
	}

	if params.Password != "" {
		passwordHash, err := security.HashPassword(params.Password)
		if err != nil {
			return nil, err
		}
		author.Password = passwordHash
	}

	author, err := u.authorRepo.CreateAuthor(ctx, author)
	if err != nil {
		return nil, mapAuthorErr(err)
	}

	if author.HasPassword() {
		if _, err := u.identityRepo.CreateIdentity(ctx, &model.AuthorIdentity{
			AuthorID:   author.ID.Hex(),
			Provider:   model.ProviderEmail,
			ProviderID: author.ID.Hex(),
			Email:      author.Email,
		}); err != nil {
			return nil, err
		}
	}

	return author, nil
}

func (u *authorUsecase) UpdateAuthor(ctx context.Context, id string, params UpdateAuthorParams) (*model.Author, error) {
	updateParams := repository.UpdateAuthorParams{
		Name:      params.Name,
		Surname:   params.Surname,
		Email:     params.Email,
		BirthDate: params.BirthDate,
		Avatar:    params.Avatar,
	}

	if params.Password != nil {
		passwordHash, err := security.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		updateParams.Password = &passwordHash
	}

	author, err := u.authorRepo.UpdateAuthor(ctx, id, updateParams)
	if errors.Is(err, repository.ErrNoFieldsToUpdate) {
		return u.GetAuthor(ctx, id)
	}
	if err != nil {
		return nil, mapAuthorErr(err)
	}

	return author, nil
}

// DeleteAuthor removes the author and their sign-in identities. Posts written by the
// author are kept.
func (u *authorUsecase) DeleteAuthor(ctx context.Context, id string) error {
	author, err := u.authorRepo.DeleteAuthor(ctx, id)
	if err != nil {
		return mapAuthorErr(err)
	}

	if err := u.identityRepo.DeleteIdentitiesByAuthorID(ctx, author.ID.Hex()); err != nil {
		u.logger.Error().Err(err).Str("author_id", author.ID.Hex()).Msg("failed to delete author identities")
	}

	return nil
}

func (u *authorUsecase) ListAuthorBlogPosts(ctx context.Context, id string) ([]*model.BlogPost, error) {
	author, err := u.GetAuthor(ctx, id)
	if err != nil {
		return nil, err
	}

	authorID := author.ID.Hex()
	return u.blogPostRepo.ListBlogPosts(ctx, repository.FilterBlogPostsParams{
		AuthorEmail: &author.Email,
		AuthorID:    &authorID,
	})
}

func (u *authorUsecase) UpdateAvatar(ctx context.Context, id string, file *media.File) (*model.Author, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	if _, err := u.GetAuthor(ctx, id); err != nil {
		return nil, err
	}

	url, err := upload(ctx, u.uploader, avatarFolder, *file)
	if err != nil {
		return nil, err
	}

	author, err := u.authorRepo.UpdateAuthor(ctx, id, repository.UpdateAuthorParams{Avatar: &url})
	if err != nil {
		return nil, mapAuthorErr(err)
	}

	return author, nil
}

func upload(ctx context.Context, uploader media.Uploader, folder string, file media.File) (string, error) {
	url, err := uploader.Upload(ctx, folder, file)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrUnsupportedMedia):
			return "", ErrUnsupportedMedia
		case errors.Is(err, media.ErrEmptyFile):
			return "", ErrNoFile
		case errors.Is(err, media.ErrFileTooLarge):
			return "", ErrFileTooLarge
		default:
			return "", err
		}
	}

	return url, nil
}
