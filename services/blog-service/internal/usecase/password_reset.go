package usecase

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"html/template"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
	"github.com/vasapolrittideah/strive-blog/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset token operations.
type PasswordResetUsecase interface {
	// RequestPasswordReset mails a reset link to the author registered with email.
	// Unknown emails succeed silently.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword sets a new password using the token of a reset link.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ValidatePasswordResetToken checks that token exists, is unused and not expired.
	ValidatePasswordResetToken(ctx context.Context, token string) error
}

// PasswordResetConfig configures the reset links sent by mail.
type PasswordResetConfig struct {
	// ResetURL is the frontend page receiving the ?token= parameter.
	ResetURL  string
	ExpiresIn time.Duration
}

var (
	ErrResetTokenNotFound    = errors.New("password reset token not found")
	ErrResetTokenAlreadyUsed = errors.New("password reset token has already been used")
	ErrResetTokenExpired     = errors.New("password reset token has expired")
)

const passwordResetSubject = "Reset your Strive Blog password"

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<p>Hi {{.Name}},</p>
<p>We received a request to reset the password for your account.</p>
<p>If you made this request, follow the link below to choose a new password:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>This link expires in {{.ExpiresIn}}.</p>
<p>If you did not request a password reset, you can safely ignore this email.</p>
`))

type passwordResetUsecase struct {
	authorRepo   repository.AuthorRepository
	identityRepo repository.IdentityRepository
	tokenRepo    repository.PasswordResetTokenRepository
	mailer       Mailer
	cfg          PasswordResetConfig
	logger       *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	authorRepo repository.AuthorRepository,
	identityRepo repository.IdentityRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	mailer Mailer,
	cfg PasswordResetConfig,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		authorRepo:   authorRepo,
		identityRepo: identityRepo,
		tokenRepo:    tokenRepo,
		mailer:       mailer,
		cfg:          cfg,
		logger:       logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	author, err := u.authorRepo.GetAuthorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Do not reveal whether the email is registered.
			return nil
		}
		return err
	}

	// Only the latest link stays valid
	if err := u.tokenRepo.InvalidateAuthorTokens(ctx, author.ID.Hex()); err != nil {
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	if _, err := u.tokenRepo.CreateToken(ctx, &model.PasswordResetToken{
		AuthorID:  author.ID,
		Token:     token,
		Email:     author.Email,
		ExpiresAt: time.Now().UTC().Add(u.cfg.ExpiresIn),
	}); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := passwordResetTemplate.Execute(&body, struct {
		Name      string
		Link      string
		ExpiresIn time.Duration
	}{
		Name:      author.Name,
		Link:      u.cfg.ResetURL + "?" + url.Values{"token": {token}}.Encode(),
		ExpiresIn: u.cfg.ExpiresIn,
	}); err != nil {
		return err
	}

	return u.mailer.SendHTML([]string{author.Email}, passwordResetSubject, body.String())
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	resetToken, err := u.validToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// Claim the token before touching the password so a link works only once
	if err := u.tokenRepo.MarkTokenAsUsed(ctx, token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrResetTokenAlreadyUsed
		}
		return err
	}

	authorID := resetToken.AuthorID.Hex()
	if _, err := u.authorRepo.UpdateAuthor(ctx, authorID, repository.UpdateAuthorParams{
		Password: &passwordHash,
	}); err != nil {
		return mapAuthorErr(err)
	}

	// Authors who signed up through a provider gain an email identity.
	_, err = u.identityRepo.GetIdentityByProvider(ctx, authorID, model.ProviderEmail)
	if errors.Is(err, mongo.ErrNoDocuments) {
		_, err = u.identityRepo.CreateIdentity(ctx, &model.AuthorIdentity{
			AuthorID:   authorID,
			Provider:   model.ProviderEmail,
			ProviderID: authorID,
			Email:      resetToken.Email,
		})
	}
	if err != nil {
		u.logger.Error().Err(err).Str("author_id", authorID).Msg("failed to link email identity after password reset")
	}

	return nil
}

func (u *passwordResetUsecase) ValidatePasswordResetToken(ctx context.Context, token string) error {
	_, err := u.validToken(ctx, token)
	return err
}

func (u *passwordResetUsecase) validToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	resetToken, err := u.tokenRepo.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}

	if resetToken.Used {
		return nil, ErrResetTokenAlreadyUsed
	}

	if time.Now().After(resetToken.ExpiresAt) {
		return nil, ErrResetTokenExpired
	}

	return resetToken, nil
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
