package usecase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
)

// CommentUsecase manages the comments embedded in a blog post. Every mutation
// rewrites the post's comment list and fails with ErrVersionConflict when the post
// changed since it was read.
type CommentUsecase interface {
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
	GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error)
	AddComment(ctx context.Context, postID string, params AddCommentParams) (*model.Comment, error)
	UpdateComment(ctx context.Context, postID, commentID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
}

// AddCommentParams defines the parameters for adding a comment.
type AddCommentParams struct {
	Name    string
	Email   string
	Content string
}

type commentUsecase struct {
	blogPostRepo repository.BlogPostRepository
	now          func() time.Time
}

func NewCommentUsecase(blogPostRepo repository.BlogPostRepository) CommentUsecase {
	return &commentUsecase{
		blogPostRepo: blogPostRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (u *commentUsecase) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	post, err := u.blogPostRepo.GetBlogPost(ctx, postID)
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	return post.Comments, nil
}

func (u *commentUsecase) GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error) {
	post, id, err := u.load(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	comment, err := post.FindComment(id)
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	return &comment, nil
}

func (u *commentUsecase) AddComment(ctx context.Context, postID string, params AddCommentParams) (*model.Comment, error) {
	post, err := u.blogPostRepo.GetBlogPost(ctx, postID)
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	comment := post.AddComment(params.Name, params.Email, params.Content, u.now())

	if _, err := u.blogPostRepo.ReplaceComments(ctx, postID, post.Version, post.Comments); err != nil {
		return nil, mapBlogPostErr(err)
	}

	return &comment, nil
}

func (u *commentUsecase) UpdateComment(ctx context.Context, postID, commentID, content string) (*model.Comment, error) {
	post, id, err := u.load(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	comment, err := post.UpdateComment(id, content, u.now())
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	if _, err := u.blogPostRepo.ReplaceComments(ctx, postID, post.Version, post.Comments); err != nil {
		return nil, mapBlogPostErr(err)
	}

	return &comment, nil
}

func (u *commentUsecase) DeleteComment(ctx context.Context, postID, commentID string) error {
	post, id, err := u.load(ctx, postID, commentID)
	if err != nil {
		return err
	}

	if err := post.RemoveComment(id); err != nil {
		return mapBlogPostErr(err)
	}

	if _, err := u.blogPostRepo.ReplaceComments(ctx, postID, post.Version, post.Comments); err != nil {
		return mapBlogPostErr(err)
	}

	return nil
}

// load fetches the parent post and parses the comment id. The post is looked up
// first so a missing post reports 404 before a malformed comment id.
func (u *commentUsecase) load(ctx context.Context, postID, commentID string) (*model.BlogPost, bson.ObjectID, error) {
	post, err := u.blogPostRepo.GetBlogPost(ctx, postID)
	if err != nil {
		return nil, bson.ObjectID{}, mapBlogPostErr(err)
	}

	id, err := repository.ParseID(commentID)
	if err != nil {
		return nil, bson.ObjectID{}, ErrCommentNotFound
	}

	return post, id, nil
}
