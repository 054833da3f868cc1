package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category has an independent lifecycle: posts reference it by id and a
// deleted category leaves dangling references behind.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
