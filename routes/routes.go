package routes

import (
	"os"
	"strings"
	"time"

	"mindfulhaven/handlers"
	"mindfulhaven/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:5173"}
}

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	api.Use(middleware.RateLimit())
	api.Use(middleware.Identity())

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Mindful Haven API is running",
			"time":    time.Now().Unix(),
		})
	})

	// Auth sync (identity provider webhook)
	api.POST("/auth/sync", handlers.SyncUser)

	// Posts
	api.GET("/posts", handlers.GetPosts)
	api.POST("/posts", handlers.CreatePost)
	api.GET("/posts/:id", handlers.GetPost)
	api.PUT("/posts/:id", handlers.UpdatePost)
	api.DELETE("/posts/:id", handlers.DeletePost)

	// Categories
	api.GET("/categories", handlers.GetCategories)
	api.POST("/categories", handlers.CreateCategory)

	// Comments
	api.GET("/posts/:id/comments", handlers.GetComments)
	api.POST("/posts/:id/comments", handlers.CreateComment)
	api.PUT("/comments/:id", handlers.UpdateComment)
	api.DELETE("/comments/:id", handlers.DeleteComment)

	// Likes
	api.POST("/posts/:id/like", handlers.ToggleLike)
	api.GET("/posts/:id/likes", handlers.GetPostLikes)
	api.GET("/users/:id/likes", handlers.GetUserLikes)

	// Bookmarks
	api.POST("/posts/:id/bookmark", handlers.ToggleBookmark)
	api.GET("/posts/:id/bookmark", handlers.CheckBookmark)
	api.GET("/bookmarks", handlers.GetUserBookmarks)

	// Users
	api.GET("/users", handlers.GetUsers)
	api.POST("/users", handlers.FindOrCreateUser)
	api.GET("/users/:id", handlers.GetUser)
	api.GET("/users/clerk/:clerkUserId", handlers.GetUserByClerkID)

	// Featured image upload
	api.POST("/upload", handlers.UploadImage)

	// Push subscriptions
	api.GET("/vapid-public-key", handlers.GetVapidPublicKey)
	api.POST("/subscribe", handlers.SubscribePush)

	// JSON 404 for unknown API paths
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"success": false,
				"error":   "Endpoint not found",
				"path":    c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
