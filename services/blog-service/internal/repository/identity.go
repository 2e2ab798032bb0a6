package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
)

// IdentityRepository defines the interface for author identity database operations.
type IdentityRepository interface {
	CreateIdentity(ctx context.Context, identity *model.AuthorIdentity) (*model.AuthorIdentity, error)
	GetIdentitiesByAuthorID(ctx context.Context, authorID string) ([]model.AuthorIdentity, error)
	GetIdentityByProvider(ctx context.Context, providerID string, provider string) (*model.AuthorIdentity, error)
	UpdateLastLogin(ctx context.Context, authorID string, provider string) error
	DeleteIdentitiesByAuthorID(ctx context.Context, authorID string) error
}

const identityCollection = "author_identities"

type identityMongoRepository struct {
	db *mongo.Database
}

func NewIdentityMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) IdentityRepository {
	collection := db.Collection(identityCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "provider_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "author_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create author identity indexes")
	}

	return &identityMongoRepository{db: db}
}

func (r *identityMongoRepository) CreateIdentity(
	ctx context.Context,
	identity *model.AuthorIdentity,
) (*model.AuthorIdentity, error) {
	now := time.Now().UTC()
	identity.CreatedAt = now
	identity.UpdatedAt = now

	result, err := r.db.Collection(identityCollection).InsertOne(ctx, identity)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		identity.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return identity, nil
}

func (r *identityMongoRepository) GetIdentitiesByAuthorID(
	ctx context.Context,
	authorID string,
) ([]model.AuthorIdentity, error) {
	cursor, err := r.db.Collection(identityCollection).Find(ctx, bson.M{"author_id": authorID})
	if err != nil {
		return nil, err
	}

	identities := []model.AuthorIdentity{}
	if err := cursor.All(ctx, &identities); err != nil {
		return nil, err
	}

	return identities, nil
}

func (r *identityMongoRepository) GetIdentityByProvider(
	ctx context.Context,
	providerID string,
	provider string,
) (*model.AuthorIdentity, error) {
	result := r.db.Collection(identityCollection).FindOne(ctx, bson.M{
		"provider_id": providerID,
		"provider":    provider,
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var identity model.AuthorIdentity
	if err := result.Decode(&identity); err != nil {
		return nil, err
	}

	return &identity, nil
}

func (r *identityMongoRepository) UpdateLastLogin(ctx context.Context, authorID string, provider string) error {
	now := time.Now().UTC()

	_, err := r.db.Collection(identityCollection).UpdateOne(
		ctx,
		bson.M{"author_id": authorID, "provider": provider},
		bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}},
	)
	return err
}

func (r *identityMongoRepository) DeleteIdentitiesByAuthorID(ctx context.Context, authorID string) error {
	_, err := r.db.Collection(identityCollection).DeleteMany(ctx, bson.M{"author_id": authorID})
	return err
}
