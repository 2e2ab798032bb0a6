package mock

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
)

type BlogPostRepository struct {
	mu    sync.Mutex
	posts []*model.BlogPost
}

func NewBlogPostRepository() *BlogPostRepository {
	return &BlogPostRepository{}
}

func (r *BlogPostRepository) CreateBlogPost(_ context.Context, post *model.BlogPost) (*model.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	post.ID = bson.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Version = 1
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	r.posts = append(r.posts, clonePost(post))

	return post, nil
}

func (r *BlogPostRepository) GetBlogPost(_ context.Context, id string) (*model.BlogPost, error) {
	objectID, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfID(objectID)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}

	return clonePost(r.posts[i]), nil
}

func (r *BlogPostRepository) ListBlogPosts(
	_ context.Context,
	params repository.FilterBlogPostsParams,
) ([]*model.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := []*model.BlogPost{}
	for _, post := range r.posts {
		if params.Title != nil && !strings.Contains(strings.ToLower(post.Title), strings.ToLower(*params.Title)) {
			continue
		}

		if params.AuthorEmail != nil || params.AuthorID != nil {
			byEmail := params.AuthorEmail != nil && post.Author == *params.AuthorEmail
			byID := params.AuthorID != nil && post.AuthorID == *params.AuthorID
			if !byEmail && !byID {
				continue
			}
		}

		posts = append(posts, clonePost(post))
	}

	return posts, nil
}

func (r *BlogPostRepository) UpdateBlogPost(
	_ context.Context,
	id string,
	params repository.UpdateBlogPostParams,
) (*model.BlogPost, error) {
	objectID, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	if params.IsZero() {
		return nil, repository.ErrNoFieldsToUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfID(objectID)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}

	post := r.posts[i]
	if params.Category != nil {
		post.Category = *params.Category
	}
	if params.Title != nil {
		post.Title = *params.Title
	}
	if params.Cover != nil {
		post.Cover = *params.Cover
	}
	if params.ReadTimeValue != nil {
		post.ReadTime.Value = *params.ReadTimeValue
	}
	if params.ReadTimeUnit != nil {
		post.ReadTime.Unit = *params.ReadTimeUnit
	}
	if params.Author != nil {
		post.Author = *params.Author
	}
	if params.Content != nil {
		post.Content = *params.Content
	}
	post.UpdatedAt = time.Now().UTC()
	post.Version++

	return clonePost(post), nil
}

func (r *BlogPostRepository) ReplaceComments(
	_ context.Context,
	id string,
	version int64,
	comments []model.Comment,
) (*model.BlogPost, error) {
	objectID, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfID(objectID)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}

	post := r.posts[i]
	if post.Version != version {
		return nil, repository.ErrVersionConflict
	}

	post.Comments = slices.Clone(comments)
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	post.UpdatedAt = time.Now().UTC()
	post.Version++

	return clonePost(post), nil
}

func (r *BlogPostRepository) DeleteBlogPost(_ context.Context, id string) (*model.BlogPost, error) {
	objectID, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfID(objectID)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}

	deleted := r.posts[i]
	r.posts = slices.Delete(r.posts, i, i+1)

	return deleted, nil
}

// BumpVersion simulates a concurrent writer touching the post.
func (r *BlogPostRepository) BumpVersion(id bson.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOfID(id); i >= 0 {
		r.posts[i].Version++
	}
}

func (r *BlogPostRepository) indexOfID(id bson.ObjectID) int {
	return slices.IndexFunc(r.posts, func(p *model.BlogPost) bool { return p.ID == id })
}

func clonePost(post *model.BlogPost) *model.BlogPost {
	clone := *post
	clone.Comments = slices.Clone(post.Comments)
	if clone.Comments == nil {
		clone.Comments = []model.Comment{}
	}

	return &clone
}
