package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
)

// BlogPostRepository defines the interface for blog post database operations.
type BlogPostRepository interface {
	CreateBlogPost(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (*model.BlogPost, error)
	ListBlogPosts(ctx context.Context, params FilterBlogPostsParams) ([]*model.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, params UpdateBlogPostParams) (*model.BlogPost, error)
	// ReplaceComments overwrites the comments of the post only if its version still
	// equals version, returning ErrVersionConflict otherwise.
	ReplaceComments(ctx context.Context, id string, version int64, comments []model.Comment) (*model.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) (*model.BlogPost, error)
}

// UpdateBlogPostParams defines the optional parameters for updating a blog post.
// Only the fields that are not nil will be updated.
type UpdateBlogPostParams struct {
	Category      *string
	Title         *string
	Cover         *string
	ReadTimeValue *int
	ReadTimeUnit  *string
	Author        *string
	Content       *string
}

func (p UpdateBlogPostParams) IsZero() bool {
	return p.Category == nil &&
		p.Title == nil &&
		p.Cover == nil &&
		p.ReadTimeValue == nil &&
		p.ReadTimeUnit == nil &&
		p.Author == nil &&
		p.Content == nil
}

// FilterBlogPostsParams narrows a blog post listing. Title matches a case-insensitive
// substring. AuthorEmail and AuthorID match posts written by either.
type FilterBlogPostsParams struct {
	Title       *string
	AuthorEmail *string
	AuthorID    *string
}

const blogPostCollection = "blog_posts"

type blogPostMongoRepository struct {
	db *mongo.Database
}

func NewBlogPostMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) BlogPostRepository {
	collection := db.Collection(blogPostCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create blog post indexes")
	}

	return &blogPostMongoRepository{db: db}
}

func (r *blogPostMongoRepository) CreateBlogPost(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Version = 1
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	result, err := r.db.Collection(blogPostCollection).InsertOne(ctx, post)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		post.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return post, nil
}

func (r *blogPostMongoRepository) GetBlogPost(ctx context.Context, id string) (*model.BlogPost, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(blogPostCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	return decodeBlogPost(result)
}

func (r *blogPostMongoRepository) ListBlogPosts(
	ctx context.Context,
	params FilterBlogPostsParams,
) ([]*model.BlogPost, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	// Build filter query
	filter := bson.M{}
	if params.Title != nil && *params.Title != "" {
		filter["title"] = bson.M{
			"$regex":   regexp.QuoteMeta(*params.Title),
			"$options": "i",
		}
	}

	var authorMatch bson.A
	if params.AuthorEmail != nil {
		authorMatch = append(authorMatch, bson.M{"author": *params.AuthorEmail})
	}
	if params.AuthorID != nil {
		authorMatch = append(authorMatch, bson.M{"author_id": *params.AuthorID})
	}
	if len(authorMatch) > 0 {
		filter["$or"] = authorMatch
	}

	cursor, err := r.db.Collection(blogPostCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []*model.BlogPost{}
	for cursor.Next(ctx) {
		var post model.BlogPost
		if err := cursor.Decode(&post); err != nil {
			return nil, err
		}
		if post.Comments == nil {
			post.Comments = []model.Comment{}
		}
		posts = append(posts, &post)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *blogPostMongoRepository) UpdateBlogPost(
	ctx context.Context,
	id string,
	params UpdateBlogPostParams,
) (*model.BlogPost, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	if params.IsZero() {
		return nil, ErrNoFieldsToUpdate
	}

	// Build update query
	updateMap := bson.M{}
	if params.Category != nil {
		updateMap["category"] = *params.Category
	}
	if params.Title != nil {
		updateMap["title"] = *params.Title
	}
	if params.Cover != nil {
		updateMap["cover"] = *params.Cover
	}
	if params.ReadTimeValue != nil {
		updateMap["read_time.value"] = *params.ReadTimeValue
	}
	if params.ReadTimeUnit != nil {
		updateMap["read_time.unit"] = *params.ReadTimeUnit
	}
	if params.Author != nil {
		updateMap["author"] = *params.Author
	}
	if params.Content != nil {
		updateMap["content"] = *params.Content
	}

	updateMap["updated_at"] = time.Now().UTC()

	result := r.db.Collection(blogPostCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	return decodeBlogPost(result)
}

func (r *blogPostMongoRepository) ReplaceComments(
	ctx context.Context,
	id string,
	version int64,
	comments []model.Comment,
) (*model.BlogPost, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []model.Comment{}
	}

	result := r.db.Collection(blogPostCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "version": version},
		bson.M{
			"$set": bson.M{"comments": comments, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		// Distinguish a stale version from a post deleted in the meantime.
		count, countErr := r.db.Collection(blogPostCollection).CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr != nil {
			return nil, countErr
		}
		if count > 0 {
			return nil, ErrVersionConflict
		}

		return nil, mongo.ErrNoDocuments
	}

	return decodeBlogPost(result)
}

func (r *blogPostMongoRepository) DeleteBlogPost(ctx context.Context, id string) (*model.BlogPost, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(blogPostCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	return decodeBlogPost(result)
}

func decodeBlogPost(result *mongo.SingleResult) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := result.Decode(&post); err != nil {
		return nil, err
	}

	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	return &post, nil
}
