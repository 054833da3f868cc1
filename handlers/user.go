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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type findOrCreateUserRequest struct {
	ClerkUserID string `json:"clerkUserId" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required"`
}

// FindOrCreateUser returns the user for an external identity id, creating
// it on first sight. An existing record is returned unchanged; stale
// profile fields are not refreshed here (the sync webhook does that).
func FindOrCreateUser(c *gin.Context) {
	var req findOrCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := findUserByClerkID(ctx, req.ClerkUserID)
	if err == nil {
		respondOK(c, user)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("FindOrCreateUser lookup error: %v", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	created := models.User{
		ID:          primitive.NewObjectID(),
		ClerkUserID: req.ClerkUserID,
		Email:       req.Email,
		Username:    req.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.Users.InsertOne(ctx, created); err != nil {
		if isDuplicateKey(err) {
			// Either a concurrent create for the same identity or a
			// username/email collision with another account.
			if existing, lookupErr := findUserByClerkID(ctx, req.ClerkUserID); lookupErr == nil {
				respondOK(c, existing)
				return
			}
			respondError(c, http.StatusBadRequest, "User with this email or username already exists")
			return
		}
		log.Printf("FindOrCreateUser insert error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respondOK(c, created)
}

func GetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode users")
		return
	}

	respondOK(c, users)
}

func GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	respondOK(c, user)
}

// GetUserByClerkID looks a user up by external identity id.
func GetUserByClerkID(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := findUserByClerkID(ctx, c.Param("clerkUserId"))
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	respondOK(c, user)
}
