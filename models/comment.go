package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment keeps its post reference even after the post is deleted; there
// is no cascade, so orphaned comments remain retrievable.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Post      primitive.ObjectID `bson:"post" json:"post"`
	IsEdited  bool               `bson:"isEdited" json:"isEdited"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
