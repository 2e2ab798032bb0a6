package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PasswordResetToken is a single use token mailed to an author who forgot their
// password. Token is the random value carried by the reset link.
type PasswordResetToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	AuthorID  bson.ObjectID `bson:"author_id"`
	Token     string        `bson:"token"`
	Email     string        `bson:"email"`
	Used      bool          `bson:"used"`
	ExpiresAt time.Time     `bson:"expires_at"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}
