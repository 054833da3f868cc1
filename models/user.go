package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is created lazily the first time an external identity is seen,
// either through the auth sync webhook or a find-or-create call.
// ClerkUserID is the stable key issued by the identity provider and is
// never changed after creation.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkUserID     string             `bson:"clerkUserId" json:"clerkUserId"`
	Username        string             `bson:"username" json:"username"`
	Email           string             `bson:"email" json:"email"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName" json:"lastName"`
	ProfileImageURL string             `bson:"profileImageUrl" json:"profileImageUrl"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
