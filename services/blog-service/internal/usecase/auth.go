package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
	"github.com/vasapolrittideah/strive-blog/shared/auth"
	"github.com/vasapolrittideah/strive-blog/shared/provider"
	"github.com/vasapolrittideah/strive-blog/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases. Every
// successful sign-in, local or through a provider, returns the same bearer token.
type AuthUsecase interface {
	Login(ctx context.Context, params LoginParams) (string, error)
	Me(ctx context.Context, authorID string) (*model.Author, error)
	// BeginOAuth returns the consent page URL of the provider.
	BeginOAuth(ctx context.Context, providerName string) (string, error)
	// CompleteOAuth finishes the flow started by BeginOAuth and returns a token.
	CompleteOAuth(ctx context.Context, providerName, state, code string) (string, error)
}

// LoginParams defines the parameters for author login.
type LoginParams struct {
	Email    string
	Password string
}

const OAuthStateTTL = 10 * time.Minute

type authUsecase struct {
	authorRepo   repository.AuthorRepository
	identityRepo repository.IdentityRepository
	stateRepo    repository.OAuthStateRepository
	providers    map[string]provider.Provider
	jwtAuth      *auth.JWTAuthenticator
	logger       *zerolog.Logger
}

func NewAuthUsecase(
	authorRepo repository.AuthorRepository,
	identityRepo repository.IdentityRepository,
	stateRepo repository.OAuthStateRepository,
	providers []provider.Provider,
	jwtAuth *auth.JWTAuthenticator,
	logger *zerolog.Logger,
) AuthUsecase {
	providerMap := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		providerMap[p.Name()] = p
	}

	return &authUsecase{
		authorRepo:   authorRepo,
		identityRepo: identityRepo,
		stateRepo:    stateRepo,
		providers:    providerMap,
		jwtAuth:      jwtAuth,
		logger:       logger,
	}
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, error) {
	author, err := u.authorRepo.GetAuthorByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	if ok, err := security.VerifyPassword(params.Password, author.Password); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	return u.signIn(ctx, author, model.ProviderEmail)
}

func (u *authUsecase) Me(ctx context.Context, authorID string) (*model.Author, error) {
	author, err := u.authorRepo.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, mapAuthorErr(err)
	}

	return author, nil
}

func (u *authUsecase) BeginOAuth(ctx context.Context, providerName string) (string, error) {
	p, ok := u.providers[providerName]
	if !ok {
		return "", ErrUnknownProvider
	}

	state := uuid.NewString()
	if err := u.stateRepo.SaveState(ctx, state, providerName, OAuthStateTTL); err != nil {
		return "", fmt.Errorf("failed to save oauth state: %w", err)
	}

	return p.AuthCodeURL(state), nil
}

func (u *authUsecase) CompleteOAuth(ctx context.Context, providerName, state, code string) (string, error) {
	p, ok := u.providers[providerName]
	if !ok {
		return "", ErrUnknownProvider
	}

	if state == "" {
		return "", ErrInvalidOAuthState
	}

	issuedFor, err := u.stateRepo.ConsumeState(ctx, state)
	if err != nil {
		if errors.Is(err, repository.ErrOAuthStateInvalid) {
			return "", ErrInvalidOAuthState
		}
		return "", err
	}
	if issuedFor != providerName {
		return "", ErrInvalidOAuthState
	}

	identity, err := p.Identify(ctx, code)
	if err != nil {
		return "", err
	}

	author, err := u.findOrCreateAuthor(ctx, identity)
	if err != nil {
		return "", err
	}

	return u.signIn(ctx, author, identity.Provider)
}

// findOrCreateAuthor resolves the author behind a provider identity: first through a
// linked identity, then by email (linking the identity), and finally by creating a
// password-less author.
func (u *authUsecase) findOrCreateAuthor(ctx context.Context, identity *provider.Identity) (*model.Author, error) {
	linked, err := u.identityRepo.GetIdentityByProvider(ctx, identity.ProviderID, identity.Provider)
	switch {
	case err == nil:
		author, err := u.authorRepo.GetAuthor(ctx, linked.AuthorID)
		if err != nil {
			return nil, mapAuthorErr(err)
		}
		return author, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	author, err := u.authorRepo.GetAuthorByEmail(ctx, identity.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		author, err = u.authorRepo.CreateAuthor(ctx, &model.Author{
			Name:    identity.Name,
			Surname: identity.Surname,
			Email:   identity.Email,
			Avatar:  identity.AvatarURL,
		})
	}
	if err != nil {
		return nil, mapAuthorErr(err)
	}

	if _, err := u.identityRepo.CreateIdentity(ctx, &model.AuthorIdentity{
		AuthorID:   author.ID.Hex(),
		Provider:   identity.Provider,
		ProviderID: identity.ProviderID,
		Email:      identity.Email,
	}); err != nil {
		return nil, err
	}

	u.logger.Info().
		Str("author_id", author.ID.Hex()).
		Str("provider", identity.Provider).
		Msg("linked provider identity to author")

	return author, nil
}

func (u *authUsecase) signIn(ctx context.Context, author *model.Author, providerName string) (string, error) {
	if err := u.identityRepo.UpdateLastLogin(ctx, author.ID.Hex(), providerName); err != nil {
		return "", err
	}

	return u.jwtAuth.GenerateToken(author.ID.Hex(), author.Email)
}
