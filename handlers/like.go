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

type toggleRequest struct {
	ClerkUserID string `json:"clerkUserId"`
}

// ToggleLike flips the (post,user) like row. The count in the response is
// recomputed from the likes collection on every call rather than kept as a
// counter, so it can never drift from the rows.
//
// Two concurrent toggles can both see "no like yet" and race to insert;
// the unique index rejects the loser, which is folded into the same liked
// outcome instead of surfacing as an error.
func ToggleLike(c *gin.Context) {
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

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
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

	like := models.Like{
		ID:        primitive.NewObjectID(),
		Post:      postID,
		User:      user.ID,
		CreatedAt: time.Now(),
	}

	pair := bson.M{"post": postID, "user": user.ID}
	liked, count, err := togglePairRow(ctx, database.Likes, pair, like, bson.M{"post": postID})
	if err != nil {
		log.Printf("ToggleLike error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to toggle like")
		return
	}

	if liked && post.Author != user.ID {
		SendLikePush(post.Author, user.Username, post.Title)
	}

	respondOK(c, gin.H{"liked": liked, "likeCount": count})
}

// GetPostLikes returns the like count and, when an identity is supplied,
// whether that user has liked the post.
func GetPostLikes(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Likes.CountDocuments(ctx, bson.M{"post": postID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count likes")
		return
	}

	liked := false
	if clerkUserID := requestClerkUserID(c, c.Query("clerkUserId")); clerkUserID != "" {
		if user, err := findUserByClerkID(ctx, clerkUserID); err == nil {
			n, err := database.Likes.CountDocuments(ctx, bson.M{"post": postID, "user": user.ID})
			if err == nil && n > 0 {
				liked = true
			}
		}
	}

	respondOK(c, gin.H{"likeCount": count, "liked": liked})
}

type likeWithPost struct {
	models.Like `bson:",inline"`
	PostDoc     *struct {
		ID        primitive.ObjectID `bson:"_id"`
		Title     string             `bson:"title"`
		Author    primitive.ObjectID `bson:"author"`
		CreatedAt time.Time          `bson:"createdAt"`
	} `bson:"postDoc"`
	PostAuthor *models.User `bson:"postAuthor"`
}

// GetUserLikes lists everything a user has liked, newest-first, with the
// liked post's title and author joined for display.
func GetUserLikes(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user": userID}}},
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
			{Key: "as", Value: "postAuthor"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$postAuthor"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := database.Likes.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetUserLikes aggregate error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch likes")
		return
	}
	defer cursor.Close(ctx)

	var likes []likeWithPost
	if err := cursor.All(ctx, &likes); err != nil {
		log.Printf("GetUserLikes decode error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to decode likes")
		return
	}

	data := make([]gin.H, len(likes))
	for i, l := range likes {
		entry := gin.H{
			"id":        l.Like.ID.Hex(),
			"user":      l.User.Hex(),
			"createdAt": l.Like.CreatedAt,
		}
		post := gin.H{"id": l.Post.Hex()}
		if l.PostDoc != nil {
			post["title"] = l.PostDoc.Title
			post["createdAt"] = l.PostDoc.CreatedAt
			author := gin.H{"id": l.PostDoc.Author.Hex(), "username": ""}
			if l.PostAuthor != nil {
				author["username"] = l.PostAuthor.Username
			}
			post["author"] = author
		}
		entry["post"] = post
		data[i] = entry
	}

	respondOK(c, data)
}
