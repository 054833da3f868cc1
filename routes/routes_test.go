package routes_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"mindfulhaven/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These exercise everything that runs before any database access:
// routing, validation and identity requirements.

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter()
}

func doJSON(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "GET", "/api/health", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestUnknownAPIRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "GET", "/api/definitely-not-a-route", "")
	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "Endpoint not found")
}

func TestCreatePost_MissingFieldsRejected(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "POST", "/api/posts", `{}`)
	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "Validation failed")
	assert.Contains(t, rec.Body.String(), "Title is required")
	assert.Contains(t, rec.Body.String(), "Content is required")
}

func TestCreateComment_OverLongContentRejected(t *testing.T) {
	router := newTestRouter(t)
	body := `{"content":"` + strings.Repeat("a", 1001) + `","clerkUserId":"user_1"}`
	rec := doJSON(t, router, "POST", "/api/posts/507f1f77bcf86cd799439011/comments", body)
	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot exceed 1000 characters")
}

func TestGetPost_MalformedIDIsNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "GET", "/api/posts/not-an-object-id", "")
	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found")
}

func TestDeletePost_MalformedIDIsNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "DELETE", "/api/posts/bogus", "")
	assert.Equal(t, 404, rec.Code)
}

func TestToggleLike_RequiresIdentity(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "POST", "/api/posts/507f1f77bcf86cd799439011/like", `{}`)
	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "clerkUserId is required")
}

func TestToggleBookmark_MalformedPostIDIsNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "POST", "/api/posts/nope/bookmark", `{"clerkUserId":"user_1"}`)
	assert.Equal(t, 404, rec.Code)
}

func TestUpdateComment_RequiresIdentity(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "PUT", "/api/comments/507f1f77bcf86cd799439011", `{"content":"edited"}`)
	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "clerkUserId is required")
}

func TestGetBookmarks_RequiresIdentity(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "GET", "/api/bookmarks", "")
	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "clerkUserId is required")
}

func TestAuthSync_MissingIDRejected(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, "POST", "/api/auth/sync", `{"type":"user.created","data":{}}`)
	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required field: id")
}
