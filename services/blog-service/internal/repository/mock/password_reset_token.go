package mock

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
)

type PasswordResetTokenRepository struct {
	mu     sync.Mutex
	tokens []model.PasswordResetToken
}

func NewPasswordResetTokenRepository() *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{}
}

func (r *PasswordResetTokenRepository) CreateToken(
	_ context.Context,
	token *model.PasswordResetToken,
) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tokens {
		if existing.Token == token.Token {
			return nil, duplicateKeyError()
		}
	}

	now := time.Now().UTC()
	token.ID = bson.NewObjectID()
	token.CreatedAt = now
	token.UpdatedAt = now
	token.Used = false
	r.tokens = append(r.tokens, *token)

	return token, nil
}

func (r *PasswordResetTokenRepository) GetToken(_ context.Context, token string) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.Token == token {
			found := t
			return &found, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *PasswordResetTokenRepository) MarkTokenAsUsed(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tokens {
		if r.tokens[i].Token == token && !r.tokens[i].Used {
			r.tokens[i].Used = true
			r.tokens[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}

	return mongo.ErrNoDocuments
}

func (r *PasswordResetTokenRepository) InvalidateAuthorTokens(_ context.Context, authorID string) error {
	objectID, err := repository.ParseID(authorID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tokens {
		if r.tokens[i].AuthorID == objectID {
			r.tokens[i].Used = true
		}
	}

	return nil
}

// Tokens returns a copy of every stored token.
func (r *PasswordResetTokenRepository) Tokens() []model.PasswordResetToken {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]model.PasswordResetToken(nil), r.tokens...)
}

// Expire moves the expiry of token into the past.
func (r *PasswordResetTokenRepository) Expire(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tokens {
		if r.tokens[i].Token == token {
			r.tokens[i].ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
}
