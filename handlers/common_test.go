package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"mindfulhaven/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestNewPagination(t *testing.T) {
	p := newPagination(1, 10, 25)
	assert.Equal(t, int64(3), p.Pages)
	assert.Equal(t, int64(25), p.Total)

	p = newPagination(1, 10, 30)
	assert.Equal(t, int64(3), p.Pages)

	p = newPagination(1, 10, 0)
	assert.Equal(t, int64(0), p.Pages)
}

func TestParsePagination_Defaults(t *testing.T) {
	c := testContext(t, "/api/posts")
	page, limit := parsePagination(c, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}

func TestParsePagination_Explicit(t *testing.T) {
	c := testContext(t, "/api/posts?page=3&limit=5")
	page, limit := parsePagination(c, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, limit)
}

func TestParsePagination_Bounds(t *testing.T) {
	c := testContext(t, "/api/posts?page=-1&limit=9999")
	page, limit := parsePagination(c, 20)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	assert.True(t, isDuplicateKey(dup))
	assert.False(t, isDuplicateKey(errors.New("connection reset")))
	assert.False(t, isDuplicateKey(mongo.ErrNoDocuments))
}

func TestRequestClerkUserID_TokenIdentityWins(t *testing.T) {
	c := testContext(t, "/api/posts")
	c.Set(middleware.ContextClerkUserID, "user_from_token")
	assert.Equal(t, "user_from_token", requestClerkUserID(c, "user_from_body"))
}

func TestRequestClerkUserID_FallsBackToSupplied(t *testing.T) {
	c := testContext(t, "/api/posts")
	assert.Equal(t, "user_from_body", requestClerkUserID(c, "user_from_body"))
}
