// Seeds the database with the starter categories, a sample user and a
// couple of published posts. Wipes posts/categories/users first.
package main

import (
	"context"
	"log"
	"time"

	"mindfulhaven/database"
	"mindfulhaven/models"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Connect(); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, coll := range []string{"posts", "categories", "users"} {
		if _, err := database.Client.Database("mindful-haven").Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", coll, err)
		}
	}
	log.Println("Cleared existing data")

	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create indexes: ", err)
	}

	now := time.Now()

	seedCategories := []models.Category{
		{ID: primitive.NewObjectID(), Name: "Mindfulness", Description: "Practices for present moment awareness", CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Meditation", Description: "Guided meditation techniques and tips", CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Mental Health", Description: "Insights on emotional wellbeing", CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Wellness", Description: "Holistic health and lifestyle", CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Stress Relief", Description: "Techniques for managing stress", CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Sleep", Description: "Better sleep and relaxation methods", CreatedAt: now, UpdatedAt: now},
	}

	docs := make([]interface{}, len(seedCategories))
	for i, cat := range seedCategories {
		docs[i] = cat
	}
	if _, err := database.Categories.InsertMany(ctx, docs); err != nil {
		log.Fatal("Failed to seed categories: ", err)
	}
	log.Printf("Categories created: %d", len(seedCategories))

	user := models.User{
		ID:          primitive.NewObjectID(),
		ClerkUserID: "sample_user_123",
		Username:    "mindful_admin",
		Email:       "admin@mindfulhaven.com",
		FirstName:   "Sarah",
		LastName:    "Chen",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		log.Fatal("Failed to seed user: ", err)
	}
	log.Println("Sample user created")

	posts := []models.Post{
		{
			ID:    primitive.NewObjectID(),
			Title: "5 Simple Mindfulness Exercises to Start Your Day",
			Content: "Starting your day with mindfulness can transform your entire experience. " +
				"Begin with five deep breaths and notice the sensation of air entering and leaving your nostrils. " +
				"Before reaching for your phone, think of three things you are grateful for. " +
				"Spend two minutes scanning your body from head to toe, stretch gently, and set one clear intention for the day. " +
				"Consistency matters more than duration: even five minutes daily creates lasting change.",
			Author:      user.ID,
			Category:    seedCategories[0].ID,
			Tags:        []string{"morning routine", "mindfulness", "beginner"},
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:    primitive.NewObjectID(),
			Title: "Understanding Meditation: A Beginner's Guide",
			Content: "Meditation is not about stopping your thoughts or achieving a blank mind. " +
				"It is the practice of training your attention and awareness, like going to the gym for your mind. " +
				"Find a quiet space, sit comfortably, set a timer for five to ten minutes and focus on your breath. " +
				"When your mind wanders, gently bring it back. There is no perfect way to meditate; " +
				"the practice itself is what matters.",
			Author:      user.ID,
			Category:    seedCategories[1].ID,
			Tags:        []string{"meditation", "beginner", "guide"},
			IsPublished: true,
			CreatedAt:   now.Add(time.Minute),
			UpdatedAt:   now.Add(time.Minute),
		},
		{
			ID:    primitive.NewObjectID(),
			Title: "The Science Behind Mindful Breathing",
			Content: "Research increasingly shows that breathing practices have profound effects on mental health. " +
				"Slow diaphragmatic breathing activates the parasympathetic nervous system, lowering cortisol " +
				"and heart rate within minutes. Eight weeks of regular practice measurably reduces anxiety. " +
				"Try box breathing tonight: inhale for four counts, hold for four, exhale for four, hold for four.",
			Author:      user.ID,
			Category:    seedCategories[2].ID,
			Tags:        []string{"breathing", "science", "stress"},
			IsPublished: true,
			CreatedAt:   now.Add(2 * time.Minute),
			UpdatedAt:   now.Add(2 * time.Minute),
		},
	}

	postDocs := make([]interface{}, len(posts))
	for i, p := range posts {
		postDocs[i] = p
	}
	if _, err := database.Posts.InsertMany(ctx, postDocs); err != nil {
		log.Fatal("Failed to seed posts: ", err)
	}
	log.Printf("Posts created: %d", len(posts))

	log.Println("Seeding complete")
}
