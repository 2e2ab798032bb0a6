package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OAuthStateRepository holds the anti-forgery state of OAuth flows in progress.
type OAuthStateRepository interface {
	// SaveState remembers state for provider until ttl elapses.
	SaveState(ctx context.Context, state, provider string, ttl time.Duration) error
	// ConsumeState deletes state and returns the provider it was issued for.
	ConsumeState(ctx context.Context, state string) (string, error)
}

const oauthStateKeyPrefix = "oauth_state:"

type oauthStateRedisRepository struct {
	client redis.UniversalClient
}

func NewOAuthStateRedisRepository(client redis.UniversalClient) OAuthStateRepository {
	return &oauthStateRedisRepository{client: client}
}

func (r *oauthStateRedisRepository) SaveState(ctx context.Context, state, provider string, ttl time.Duration) error {
	ok, err := r.client.SetNX(ctx, oauthStateKeyPrefix+state, provider, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("oauth state %q already exists", state)
	}

	return nil
}

func (r *oauthStateRedisRepository) ConsumeState(ctx context.Context, state string) (string, error) {
	provider, err := r.client.GetDel(ctx, oauthStateKeyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrOAuthStateInvalid
		}
		return "", err
	}

	return provider, nil
}
