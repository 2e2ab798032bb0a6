package mock

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
)

type IdentityRepository struct {
	mu         sync.Mutex
	identities []model.AuthorIdentity
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{}
}

func (r *IdentityRepository) CreateIdentity(
	_ context.Context,
	identity *model.AuthorIdentity,
) (*model.AuthorIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.identities {
		if existing.Provider == identity.Provider && existing.ProviderID == identity.ProviderID {
			return nil, duplicateKeyError()
		}
	}

	now := time.Now().UTC()
	identity.ID = bson.NewObjectID()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	r.identities = append(r.identities, *identity)

	return identity, nil
}

func (r *IdentityRepository) GetIdentitiesByAuthorID(_ context.Context, authorID string) ([]model.AuthorIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identities := []model.AuthorIdentity{}
	for _, identity := range r.identities {
		if identity.AuthorID == authorID {
			identities = append(identities, identity)
		}
	}

	return identities, nil
}

func (r *IdentityRepository) GetIdentityByProvider(
	_ context.Context,
	providerID string,
	provider string,
) (*model.AuthorIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, identity := range r.identities {
		if identity.Provider == provider && identity.ProviderID == providerID {
			return &identity, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *IdentityRepository) UpdateLastLogin(_ context.Context, authorID string, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for i := range r.identities {
		if r.identities[i].AuthorID == authorID && r.identities[i].Provider == provider {
			r.identities[i].LastLoginAt = now
			r.identities[i].UpdatedAt = now
			break
		}
	}

	return nil
}

func (r *IdentityRepository) DeleteIdentitiesByAuthorID(_ context.Context, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.identities = slices.DeleteFunc(r.identities, func(identity model.AuthorIdentity) bool {
		return identity.AuthorID == authorID
	})

	return nil
}
