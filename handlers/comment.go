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

type createCommentRequest struct {
	Content     string `json:"content" binding:"required,min=1,max=1000"`
	ClerkUserID string `json:"clerkUserId" binding:"required"`
}

type updateCommentRequest struct {
	Content     string `json:"content" binding:"required,min=1,max=1000"`
	ClerkUserID string `json:"clerkUserId"`
}

type commentWithAuthor struct {
	models.Comment `bson:",inline"`
	AuthorDoc      *models.User `bson:"authorDoc"`
}

func commentLookupStages() []bson.D {
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
	}
}

func shapeComment(cm commentWithAuthor) gin.H {
	author := gin.H{"id": cm.Comment.Author.Hex(), "username": "", "profileImageUrl": ""}
	if cm.AuthorDoc != nil {
		author["username"] = cm.AuthorDoc.Username
		author["profileImageUrl"] = cm.AuthorDoc.ProfileImageURL
	}

	return gin.H{
		"id":        cm.Comment.ID.Hex(),
		"content":   cm.Content,
		"post":      cm.Post.Hex(),
		"author":    author,
		"isEdited":  cm.IsEdited,
		"createdAt": cm.Comment.CreatedAt,
		"updatedAt": cm.Comment.UpdatedAt,
	}
}

// GetComments lists a post's comments newest-first with the author joined.
// Comments survive post deletion, so a missing post still answers with
// whatever comments reference it.
func GetComments(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	page, limit := parsePagination(c, 20)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"post": postID}

	total, err := database.Comments.CountDocuments(ctx, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$skip", Value: int64((page - 1) * limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	}
	pipeline = append(pipeline, commentLookupStages()...)

	cursor, err := database.Comments.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetComments aggregate error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}
	defer cursor.Close(ctx)

	var comments []commentWithAuthor
	if err := cursor.All(ctx, &comments); err != nil {
		log.Printf("GetComments decode error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to decode comments")
		return
	}

	data := make([]gin.H, len(comments))
	for i, cm := range comments {
		data[i] = shapeComment(cm)
	}

	respondPage(c, data, newPagination(page, limit, total))
}

func CreateComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
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

	user, err := findUserByClerkID(ctx, requestClerkUserID(c, req.ClerkUserID))
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found. Please sign in.")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   req.Content,
		Author:    user.ID,
		Post:      postID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Printf("CreateComment error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	if post.Author != user.ID {
		SendCommentPush(post.Author, user.Username, post.Title)
	}

	respondCreated(c, shapeComment(commentWithAuthor{Comment: comment, AuthorDoc: user}))
}

// resolveCommentAuthor loads the comment and checks the caller is its
// author. Authorization compares resolved internal ids, never the
// client-supplied external id directly.
func resolveCommentAuthor(ctx context.Context, c *gin.Context, clerkUserID string) (*models.Comment, bool) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Comment not found")
		return nil, false
	}

	var comment models.Comment
	err = database.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Comment not found")
		return nil, false
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return nil, false
	}

	user, err := findUserByClerkID(ctx, clerkUserID)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return nil, false
	}

	if comment.Author != user.ID {
		respondError(c, http.StatusForbidden, "You are not authorized to modify this comment")
		return nil, false
	}

	return &comment, true
}

// UpdateComment replaces the content wholesale and marks the comment
// edited. Author-only.
func UpdateComment(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	clerkUserID := requestClerkUserID(c, req.ClerkUserID)
	if clerkUserID == "" {
		respondError(c, http.StatusBadRequest, "clerkUserId is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	comment, ok := resolveCommentAuthor(ctx, c, clerkUserID)
	if !ok {
		return
	}

	now := time.Now()
	_, err := database.Comments.UpdateOne(ctx, bson.M{"_id": comment.ID}, bson.M{
		"$set": bson.M{"content": req.Content, "isEdited": true, "updatedAt": now},
	})
	if err != nil {
		log.Printf("UpdateComment error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	comment.Content = req.Content
	comment.IsEdited = true
	comment.UpdatedAt = now

	respondOK(c, comment)
}

// DeleteComment hard-deletes. Author-only. The identity can come from the
// query string or a small JSON body.
func DeleteComment(c *gin.Context) {
	clerkUserID := c.Query("clerkUserId")
	if clerkUserID == "" {
		var req struct {
			ClerkUserID string `json:"clerkUserId"`
		}
		_ = c.ShouldBindJSON(&req)
		clerkUserID = req.ClerkUserID
	}
	clerkUserID = requestClerkUserID(c, clerkUserID)
	if clerkUserID == "" {
		respondError(c, http.StatusBadRequest, "clerkUserId is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	comment, ok := resolveCommentAuthor(ctx, c, clerkUserID)
	if !ok {
		return
	}

	if _, err := database.Comments.DeleteOne(ctx, bson.M{"_id": comment.ID}); err != nil {
		log.Printf("DeleteComment error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	respondOK(c, gin.H{"message": "Comment deleted successfully"})
}
