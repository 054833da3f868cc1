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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// syncPayload mirrors the identity provider's user webhook shape.
type syncPayload struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// SyncUser upserts a user from an identity-provider webhook. Unlike the
// find-or-create endpoint, the webhook is authoritative for profile
// fields, so repeat syncs refresh username/email/names/avatar.
func SyncUser(c *gin.Context) {
	var payload syncPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Missing data object in request body")
		return
	}

	if payload.Data.ID == "" {
		respondError(c, http.StatusBadRequest, "Missing required field: id")
		return
	}
	if len(payload.Data.EmailAddresses) == 0 || payload.Data.EmailAddresses[0].EmailAddress == "" {
		respondError(c, http.StatusBadRequest, "Missing or invalid email_addresses array")
		return
	}

	email := payload.Data.EmailAddresses[0].EmailAddress
	username := payload.Data.Username
	if username == "" {
		// Fall back to the email prefix, same as the original product
		username = strings.SplitN(email, "@", 2)[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"clerkUserId":     payload.Data.ID,
			"username":        username,
			"email":           email,
			"firstName":       payload.Data.FirstName,
			"lastName":        payload.Data.LastName,
			"profileImageUrl": payload.Data.ImageURL,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	err := database.Users.FindOneAndUpdate(ctx, bson.M{"clerkUserId": payload.Data.ID}, update, opts).Decode(&user)
	if err != nil {
		if isDuplicateKey(err) {
			respondError(c, http.StatusBadRequest, "User with this email or username already exists")
			return
		}
		log.Printf("SyncUser upsert error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to sync user")
		return
	}

	respondOK(c, user)
}
