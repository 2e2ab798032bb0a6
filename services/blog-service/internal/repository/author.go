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

// AuthorRepository defines the interface for author-related database operations.
type AuthorRepository interface {
	CreateAuthor(ctx context.Context, author *model.Author) (*model.Author, error)
	GetAuthor(ctx context.Context, id string) (*model.Author, error)
	GetAuthorByEmail(ctx context.Context, email string) (*model.Author, error)
	UpdateAuthor(ctx context.Context, id string, params UpdateAuthorParams) (*model.Author, error)
	DeleteAuthor(ctx context.Context, id string) (*model.Author, error)
	ListAuthors(ctx context.Context) ([]*model.Author, error)
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

func (p UpdateAuthorParams) IsZero() bool {
	return p.Name == nil &&
		p.Surname == nil &&
		p.Email == nil &&
		p.Password == nil &&
		p.BirthDate == nil &&
		p.Avatar == nil
}

const authorCollection = "authors"

type authorMongoRepository struct {
	db *mongo.Database
}

func NewAuthorMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) AuthorRepository {
	collection := db.Collection(authorCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create author indexes")
	}

	return &authorMongoRepository{db: db}
}

func (r *authorMongoRepository) CreateAuthor(ctx context.Context, author *model.Author) (*model.Author, error) {
	now := time.Now().UTC()
	author.CreatedAt = now
	author.UpdatedAt = now

	result, err := r.db.Collection(authorCollection).InsertOne(ctx, author)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		author.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return author, nil
}

func (r *authorMongoRepository) GetAuthor(ctx context.Context, id string) (*model.Author, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *authorMongoRepository) GetAuthorByEmail(ctx context.Context, email string) (*model.Author, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *authorMongoRepository) UpdateAuthor(
	ctx context.Context,
	id string,
	params UpdateAuthorParams,
) (*model.Author, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	if params.IsZero() {
		return nil, ErrNoFieldsToUpdate
	}

	// Build update query
	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Surname != nil {
		updateMap["surname"] = *params.Surname
	}
	if params.Email != nil {
		updateMap["email"] = *params.Email
	}
	if params.Password != nil {
		updateMap["password"] = *params.Password
	}
	if params.BirthDate != nil {
		updateMap["birth_date"] = *params.BirthDate
	}
	if params.Avatar != nil {
		updateMap["avatar"] = *params.Avatar
	}

	updateMap["updated_at"] = time.Now().UTC()

	result := r.db.Collection(authorCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var author model.Author
	if err := result.Decode(&author); err != nil {
		return nil, err
	}

	return &author, nil
}

func (r *authorMongoRepository) DeleteAuthor(ctx context.Context, id string) (*model.Author, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(authorCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var author model.Author
	if err := result.Decode(&author); err != nil {
		return nil, err
	}

	return &author, nil
}

func (r *authorMongoRepository) ListAuthors(ctx context.Context) ([]*model.Author, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.db.Collection(authorCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	authors := []*model.Author{}
	for cursor.Next(ctx) {
		var author model.Author
		if err := cursor.Decode(&author); err != nil {
			return nil, err
		}
		authors = append(authors, &author)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return authors, nil
}

func (r *authorMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Author, error) {
	result := r.db.Collection(authorCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var author model.Author
	if err := result.Decode(&author); err != nil {
		return nil, err
	}

	return &author, nil
}
