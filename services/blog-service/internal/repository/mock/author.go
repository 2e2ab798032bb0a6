// Package mock provides in-memory repositories with the same contract as the Mongo
// and Redis implementations, for tests.
package mock

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
)

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

type AuthorRepository struct {
	mu      sync.Mutex
	authors []*model.Author
}

func NewAuthorRepository() *AuthorRepository {
	return &AuthorRepository{}
}

func (r *AuthorRepository) CreateAuthor(_ context.Context, author *model.Author) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfEmail(author.Email) >= 0 {
		return nil, duplicateKeyError()
	}

	now := time.Now().UTC()
	author.ID = bson.NewObjectID()
	author.CreatedAt = now
	author.UpdatedAt = now

	stored := *author
	r.authors = append(r.authors, &stored)

	return author, nil
}

func (r *AuthorRepository) GetAuthor(_ context.Context, id string) (*model.Author, error) {
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

	author := *r.authors[i]
	return &author, nil
}

func (r *AuthorRepository) GetAuthorByEmail(_ context.Context, email string) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfEmail(email)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}

	author := *r.authors[i]
	return &author, nil
}

func (r *AuthorRepository) UpdateAuthor(
	_ context.Context,
	id string,
	params repository.UpdateAuthorParams,
) (*model.Author, error) {
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

	if params.Email != nil {
		if j := r.indexOfEmail(*params.Email); j >= 0 && j != i {
			return nil, duplicateKeyError()
		}
	}

	author := r.authors[i]
	if params.Name != nil {
		author.Name = *params.Name
	}
	if params.Surname != nil {
		author.Surname = *params.Surname
	}
	if params.Email != nil {
		author.Email = *params.Email
	}
	if params.Password != nil {
		author.Password = *params.Password
	}
	if params.BirthDate != nil {
		author.BirthDate = *params.BirthDate
	}
	if params.Avatar != nil {
		author.Avatar = *params.Avatar
	}
	author.UpdatedAt = time.Now().UTC()

	updated := *author
	return &updated, nil
}

func (r *AuthorRepository) DeleteAuthor(_ context.Context, id string) (*model.Author, error) {
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

	deleted := r.authors[i]
	r.authors = slices.Delete(r.authors, i, i+1)

	return deleted, nil
}

func (r *AuthorRepository) ListAuthors(_ context.Context) ([]*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	authors := make([]*model.Author, 0, len(r.authors))
	for _, a := range r.authors {
		author := *a
		authors = append(authors, &author)
	}

	return authors, nil
}

func (r *AuthorRepository) indexOfID(id bson.ObjectID) int {
	return slices.IndexFunc(r.authors, func(a *model.Author) bool { return a.ID == id })
}

func (r *AuthorRepository) indexOfEmail(email string) int {
	return slices.IndexFunc(r.authors, func(a *model.Author) bool { return a.Email == email })
}
