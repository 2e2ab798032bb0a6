package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// AuthorIdentity maps an author to one of the ways they sign in: a local password
// (provider "email", keyed by the author id) or an external provider keyed by the
// provider's subject.
type AuthorIdentity struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	AuthorID    string        `bson:"author_id"`
	ProviderID  string        `bson:"provider_id"`
	Provider    string        `bson:"provider"`
	Email       string        `bson:"email"`
	LastLoginAt time.Time     `bson:"last_login_at"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}
