package usecase

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
)

var (
	ErrAuthorNotFound      = errors.New("author not found")
	ErrAuthorAlreadyExists = errors.New("an author with this email already exists")
	ErrBlogPostNotFound    = errors.New("blog post not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidID           = errors.New("invalid id")
	ErrVersionConflict     = errors.New("blog post was modified concurrently, retry")
	ErrNoFile              = errors.New("no file uploaded")
	ErrUnsupportedMedia    = errors.New("only image uploads are supported")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUnknownProvider     = errors.New("unknown oauth provider")
	ErrInvalidOAuthState   = errors.New("invalid or expired oauth state")
)

func mapAuthorErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrAuthorNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidID
	case mongo.IsDuplicateKeyError(err):
		return ErrAuthorAlreadyExists
	default:
		return err
	}
}

func mapBlogPostErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrBlogPostNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidID
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrVersionConflict
	case errors.Is(err, model.ErrCommentNotFound):
		return ErrCommentNotFound
	default:
		return err
	}
}
