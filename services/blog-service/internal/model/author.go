package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Author is a registered writer. Email is unique and the password is an argon2id
// encoded hash that never leaves the service.
type Author struct {
	ID        bson.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Name      string        `json:"name"      bson:"name"`
	Surname   string        `json:"surname"   bson:"surname"`
	Email     string        `json:"email"     bson:"email"`
	Password  string        `json:"-"         bson:"password,omitempty"`
	BirthDate string        `json:"birthDate" bson:"birth_date"`
	Avatar    string        `json:"avatar"    bson:"avatar"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// HasPassword reports whether the author can sign in with a local password. Authors
// created through OAuth have none.
func (a *Author) HasPassword() bool {
	return a.Password != ""
}
