package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Content       string             `bson:"content" json:"content"`
	Author        primitive.ObjectID `bson:"author" json:"author"`
	Category      primitive.ObjectID `bson:"category" json:"category"`
	FeaturedImage string             `bson:"featuredImage" json:"featuredImage"`
	Tags          []string           `bson:"tags" json:"tags"`
	IsPublished   bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
