package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"mindfulhaven/database"
	"mindfulhaven/models"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		respondError(c, http.StatusServiceUnavailable, "Push notifications are not configured")
		return
	}
	respondOK(c, gin.H{"publicKey": publicKey})
}

// SubscribePush stores a browser push subscription for the identified
// user, one per user, replaced on re-subscribe.
func SubscribePush(c *gin.Context) {
	var req struct {
		ClerkUserID string `json:"clerkUserId"`
		Endpoint    string `json:"endpoint" binding:"required"`
		Keys        struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
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

	user, err := findUserByClerkID(ctx, clerkUserID)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found. Please sign in.")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	sub := models.PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: user.ID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	_, err = database.Subscriptions.UpdateOne(
		ctx,
		bson.M{"userId": user.ID},
		bson.M{"$set": bson.M{"userId": sub.UserID, "sub": sub.Sub}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("SubscribePush save error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	respondOK(c, gin.H{"message": "Push subscription saved"})
}

// sendPush delivers a best-effort notification to one user in the
// background. Expired subscriptions (410) are removed on the way out.
func sendPush(userID primitive.ObjectID, title, body string) {
	privateKey := os.Getenv("VAPID_PRIVATE_KEY")
	if privateKey == "" {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub models.PushSubscription
		err := database.Subscriptions.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
		if err == mongo.ErrNoDocuments {
			return
		}
		if err != nil {
			log.Printf("Push subscription lookup failed for %s: %v", userID.Hex(), err)
			return
		}

		payload, err := json.Marshal(gin.H{
			"title": title,
			"body":  body,
			"data":  gin.H{"timestamp": time.Now().Unix()},
		})
		if err != nil {
			return
		}

		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      "mailto:admin@mindfulhaven.app",
			VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: privateKey,
			TTL:             30,
		})
		if err != nil {
			log.Printf("Failed to send push to %s: %v", userID.Hex(), err)
			if resp != nil && resp.StatusCode == http.StatusGone {
				if _, delErr := database.Subscriptions.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
					log.Printf("Failed to delete expired subscription: %v", delErr)
				}
			}
			return
		}
		resp.Body.Close()
	}()
}

// SendCommentPush notifies a post's author about a new comment.
func SendCommentPush(authorID primitive.ObjectID, commenter, postTitle string) {
	if commenter == "" {
		commenter = "Someone"
	}
	sendPush(authorID, commenter+" commented on your post", truncate(postTitle, 100))
}

// SendLikePush notifies a post's author about a new like.
func SendLikePush(authorID primitive.ObjectID, liker, postTitle string) {
	if liker == "" {
		liker = "Someone"
	}
	sendPush(authorID, liker+" liked your post", truncate(postTitle, 100))
}

// truncate trims on rune boundaries so a multi-byte character at the cut
// never leaves invalid UTF-8 in the payload.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
