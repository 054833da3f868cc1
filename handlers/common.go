package handlers

import (
	"context"
	"net/http"
	"strconv"

	"mindfulhaven/database"
	"mindfulhaven/middleware"
	"mindfulhaven/models"
	"mindfulhaven/validation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Every success response is {success:true, data, [pagination]} and every
// failure is {success:false, error, [details]}. Handlers never emit raw
// storage errors; they are translated here or at the call site.

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func newPagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(201, gin.H{"success": true, "data": data})
}

func respondPage(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(200, gin.H{"success": true, "data": data, "pagination": p})
}

func respondError(c *gin.Context, status int, msg string, details ...string) {
	body := gin.H{"success": false, "error": msg}
	if len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}

// respondValidation answers a failed binding with per-field messages.
func respondValidation(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "Validation failed", validation.Messages(err)...)
}

// parsePagination reads 1-indexed page/limit query params with defaults.
func parsePagination(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

// requestClerkUserID resolves the external identity for a request: a
// verified bearer identity wins, otherwise the id the client supplied in
// the body or query is used. The client-supplied id is never treated as an
// internal id; it is always resolved through the user directory first.
func requestClerkUserID(c *gin.Context, supplied string) string {
	if id := c.GetString(middleware.ContextClerkUserID); id != "" {
		return id
	}
	return supplied
}

// findUserByClerkID maps an external identity id to the internal user
// record. mongo.ErrNoDocuments is returned unwrapped so callers can answer
// 404.
func findUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"clerkUserId": clerkUserID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isDuplicateKey reports whether err is a unique index violation. Both the
// plain write path and the upsert path surface code 11000 through different
// error types, so lean on the driver's own check.
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
