package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is a toggle association: its presence is flipped on every toggle
// call. The unique (post,user) index guarantees at most one row per pair
// even when two toggles race.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Post      primitive.ObjectID `bson:"post" json:"post"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
