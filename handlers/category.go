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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

func GetCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode categories")
		return
	}

	respondOK(c, categories)
}

func CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	category := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.Categories.InsertOne(ctx, category); err != nil {
		if isDuplicateKey(err) {
			respondError(c, http.StatusBadRequest, "Category with this name already exists")
			return
		}
		log.Printf("CreateCategory error: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respondCreated(c, category)
}
