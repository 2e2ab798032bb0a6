package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrInvalidID         = errors.New("invalid id")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrVersionConflict   = errors.New("document was modified concurrently")
	ErrOAuthStateInvalid = errors.New("oauth state not found or expired")
)

// ParseID converts a hex string into an ObjectID, reporting malformed ids as
// ErrInvalidID.
func ParseID(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	return objectID, nil
}
