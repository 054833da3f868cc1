package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"mindfulhaven/database"
	"mindfulhaven/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createPostRequest struct {
	Title         string   `json:"title" binding:"required,min=3,max=200"`
	Content       string   `json:"content" binding:"required,min=10"`
	ClerkUserID   string   `json:"clerkUserId" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	FeaturedImage string   `json:"featuredImage" binding:"omitempty,url"`
	Tags          []string `json:"tags" binding:"omitempty,max=10"`
	IsPublished   bool     `json:"isPublished"`
}

// updatePostRequest re-validates the same constraints minus required-ness;
// pointer fields distinguish "absent" from "set to zero value".
type updatePostRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=3,max=200"`
	Content       *string  `json:"content" binding:"omitempty,min=10"`
	Category      *string  `json:"category"`
	FeaturedImage *string  `json:"featuredImage" binding:"omitempty,url"`
	Tags          []string `json:"tags" binding:"omitempty,max=10"`
	IsPublished   *bool    `json:"isPublished"`
}

// postWithRefs carries a post plus its joined author and category docs out
// of the aggregation pipeline.
type postWithRefs struct {
	models.Post `bson:",inline"`
	AuthorDoc   *models.User     `bson:"authorDoc"`
	CategoryDoc *models.Category `bson:"categoryDoc"`
}

// postLookupStages joins author and category for display. preserveNull
// keeps posts whose category was deleted out from under them.
func postLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDoc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$authorDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "categories"},
			{Key: "localField", Value: "category"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "categoryDoc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$categoryDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func shapePost(p postWithRefs) gin.H {
	author := gin.H{"id": p.Post.Author.Hex(), "username": "", "email": ""}
	if p.AuthorDoc != nil {
		author["username"] = p.AuthorDoc.Username
		author["email"] = p.AuthorDoc.Email
	}

	category := gin.H{"id": p.Post.Category.Hex(), "name": ""}
	if p.CategoryDoc != nil {
		category["name"] = p.CategoryDoc.Name
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return gin.H{
		"id":            p.Post.ID.Hex(),
		"title":         p.Title,
		"content":       p.Content,
		"author":        author,
		"category":      category,
		"featuredImage": p.FeaturedImage,
		"tags":          tags,
		"isPublished":   p.IsPublished,
		"createdAt":     p.Post.CreatedAt,
		"updatedAt":     p.Post.UpdatedAt,
	}
}

// GetPosts lists posts newest-first with optional free-text search and
// category filter, paginated with a default limit of 10.
func GetPosts(c *gin.Context) {
	match := bson.M{}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		match["$text"] = bson.M{"$search": search}
	}

	if cat := c.Query("category"); cat != "" {
		catID, err := primitive.ObjectIDFromHex(cat)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Validation failed", "category must be a valid id")
			return
		}
		match["category"] = catID
	}

	page, limit := parsePagination(c, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := database.Posts.CountDocuments(ctx, match)
	if err != nil {
		log.Printf("GetPosts count error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$skip", Value: int64((page - 1) * limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	}
	pipeline = append(pipeline, postLookupStages()...)

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetPosts aggregate error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	defer cursor.Close(ctx)

	var posts []postWithRefs
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("GetPosts decode error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to decode posts")
		return
	}

	data := make([]gin.H, len(posts))
	for i, p := range posts {
		data[i] = shapePost(p)
	}

	respondPage(c, data, newPagination(page, limit, total))
}

// GetPost returns one post with author and category joined. A malformed id
// is answered the same way as a missing one.
func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": postID}}},
	}
	pipeline = append(pipeline, postLookupStages()...)

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetPost aggregate error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}
	defer cursor.Close(ctx)

	var posts []postWithRefs
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("GetPost decode error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to decode post")
		return
	}
	if len(posts) == 0 {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	respondOK(c, shapePost(posts[0]))
}

// CreatePost resolves the author from the supplied external identity id
// before anything is written; an unresolvable identity means no post row.
func CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := findUserByClerkID(ctx, requestClerkUserID(c, req.ClerkUserID))
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found. Please sign in.")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.Category)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed", "Category must be a valid id")
		return
	}
	if err := database.Categories.FindOne(ctx, bson.M{"_id": categoryID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	post := models.Post{
		ID:            primitive.NewObjectID(),
		Title:         req.Title,
		Content:       req.Content,
		Author:        user.ID,
		Category:      categoryID,
		FeaturedImage: req.FeaturedImage,
		Tags:          tags,
		IsPublished:   req.IsPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	respondCreated(c, post)
}

// UpdatePost applies a partial update; at least one field must be given.
func UpdatePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.FeaturedImage != nil {
		set["featuredImage"] = *req.FeaturedImage
	}
	if req.Tags != nil {
		set["tags"] = req.Tags
	}
	if req.IsPublished != nil {
		set["isPublished"] = *req.IsPublished
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if req.Category != nil {
		categoryID, err := primitive.ObjectIDFromHex(*req.Category)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Validation failed", "Category must be a valid id")
			return
		}
		if err := database.Categories.FindOne(ctx, bson.M{"_id": categoryID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Category not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "Database error")
			return
		}
		set["category"] = categoryID
	}

	if len(set) == 0 {
		respondError(c, http.StatusBadRequest, "Validation failed", "At least one field must be provided for update")
		return
	}
	set["updatedAt"] = time.Now()

	res, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": set})
	if err != nil {
		log.Printf("UpdatePost error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to update post")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch updated post")
		return
	}

	respondOK(c, post)
}

// DeletePost removes the post document only. Comments, likes and
// bookmarks that reference it are left in place and become orphans.
func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		log.Printf("DeletePost error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	if res.DeletedCount == 0 {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	respondOK(c, gin.H{})
}
