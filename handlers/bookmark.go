package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"mindfulhaven/database"
	"mindfulhaven/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleBookmark follows the same contract as ToggleLike: presence of the
// (user,post) row is flipped, the unique index absorbs racing inserts, and
// the count is always a fresh aggregate over the rows.
func ToggleBookmark(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req toggleRequest
	_ = c.ShouldBindJSON(&req)

	clerkUserID := requestClerkUserID(c, req.ClerkUserID)
	if clerkUserID == "" {
		respondError(c, http.StatusBadRequest, "clerkUserId is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user, err := findUserByClerkID(ctx, clerkUserID)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found. Please sign in.")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	bookmark := models.Bookmark{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Post:      postID,
		CreatedAt: time.Now(),
	}

	pair := bson.M{"user": user.ID, "post": postID}
	bookmarked, count, err := togglePairRow(ctx, database.Bookmarks, pair, bookmark, bson.M{"post": postID})
	if err != nil {
		log.Printf("ToggleBookmark error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to toggle bookmark")
		return
	}

	respondOK(c, gin.H{"bookmarked": bookmarked, "bookmarkCount": count})
}

// CheckBookmark reports whether the identified user has bookmarked the
// post; false when no identity is supplied.
func CheckBookmark(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookmarked := false
	if clerkUserID := requestClerkUserID(c, c.Query("clerkUserId")); clerkUserID != "" {
		if user, err := findUserByClerkID(ctx, clerkUserID); err == nil {
			n, err := database.Bookmarks.CountDocuments(ctx, bson.M{"user": user.ID, "post": postID})
			if err == nil && n > 0 {
				bookmarked = true
			}
		}
	}

	respondOK(c, gin.H{"bookmarked": bookmarked})
}

type bookmarkWithPost struct {
	models.Bookmark `bson:",inline"`
	PostDoc         *postWithRefs `bson:"postDoc"`
}

// GetUserBookmarks lists the caller's bookmarks newest-first with the post
// and its author/category joined, same shape the post list uses.
func GetUserBookmarks(c *gin.Context) {
	clerkUserID := requestClerkUserID(c, c.Query("clerkUserId"))
	if clerkUserID == "" {
		respondError(c, http.StatusBadRequest, "clerkUserId is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := findUserByClerkID(ctx, clerkUserID)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user": user.ID}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "posts"},
			{Key: "localField", Value: "post"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "postDoc"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$postDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "postDoc.author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "postDoc.authorDoc"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$postDoc.authorDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "categories"},
			{Key: "localField", Value: "postDoc.category"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "postDoc.categoryDoc"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$postDoc.categoryDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := database.Bookmarks.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetUserBookmarks aggregate error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch bookmarks")
		return
	}
	defer cursor.Close(ctx)

	var bookmarks []bookmarkWithPost
	if err := cursor.All(ctx, &bookmarks); err != nil {
		log.Printf("GetUserBookmarks decode error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to decode bookmarks")
		return
	}

	data := make([]gin.H, len(bookmarks))
	for i, b := range bookmarks {
		entry := gin.H{
			"id":        b.Bookmark.ID.Hex(),
			"user":      b.User.Hex(),
			"createdAt": b.Bookmark.CreatedAt,
		}
		if b.PostDoc != nil {
			entry["post"] = shapePost(*b.PostDoc)
		} else {
			// The post was deleted out from under the bookmark.
			entry["post"] = gin.H{"id": b.Post.Hex()}
		}
		data[i] = entry
	}

	respondOK(c, data)
}
