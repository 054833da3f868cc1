package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL, "user_2abc")
}

func TestPosts_DecodesEnvelopeAndPagination(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts", r.URL.Path)
		assert.Equal(t, "mindfulness", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"id":"p1","title":"Morning Calm","content":"Ten minutes of stillness.","author":{"id":"u1","username":"sarah"},"category":{"id":"c1","name":"Meditation"},"tags":["calm"]}
			],
			"pagination": {"page":2,"limit":10,"total":11,"pages":2}
		}`))
	})

	posts, p, err := c.Posts(context.Background(), ListPostsOptions{Search: "mindfulness", Page: 2})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Morning Calm", posts[0].Title)
	assert.Equal(t, "sarah", posts[0].Author.Username)
	assert.Equal(t, "Meditation", posts[0].Category.Name)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, int64(2), p.Pages)
}

func TestToggleLike_SendsIdentityAndDecodesStatus(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts/p1/like", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user_2abc", body["clerkUserId"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"liked":true,"likeCount":4}}`))
	})

	status, err := c.ToggleLike(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, int64(4), status.LikeCount)
}

func TestCreatePost_DecodesUnpopulatedRefs(t *testing.T) {
	// The create endpoint echoes the stored document, where author and
	// category are plain object ids rather than joined documents.
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"success": true,
			"data": {
				"id": "68b1f77bcf86cd7994390001",
				"title": "Evening Wind-Down",
				"content": "A short routine before sleep.",
				"author": "68b1f77bcf86cd7994390002",
				"category": "68b1f77bcf86cd7994390003",
				"featuredImage": "",
				"tags": [],
				"isPublished": true,
				"createdAt": "2026-09-01T10:00:00Z",
				"updatedAt": "2026-09-01T10:00:00Z"
			}
		}`))
	})

	post, err := c.CreatePost(context.Background(), CreatePostInput{
		Title:       "Evening Wind-Down",
		Content:     "A short routine before sleep.",
		Category:    "68b1f77bcf86cd7994390003",
		IsPublished: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "68b1f77bcf86cd7994390001", post.ID)
	assert.Equal(t, "68b1f77bcf86cd7994390002", post.Author)
	assert.Equal(t, "68b1f77bcf86cd7994390003", post.Category)
	assert.True(t, post.IsPublished)
}

func TestDo_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Post not found"}`))
	})

	_, err := c.Post(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Post not found", apiErr.Message)
}

func TestDo_ValidationDetailsSurfaced(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"Validation failed","details":["Title is required"]}`))
	})

	_, err := c.CreatePost(context.Background(), CreatePostInput{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"Title is required"}, apiErr.Details)
}

func TestDo_NonJSONErrorBodyBecomesAPIError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html><body>502 Bad Gateway</body></html>"))
	})

	_, err := c.Post(context.Background(), "p1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestFindOrCreateUser(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user_2abc", body["clerkUserId"])
		assert.Equal(t, "sarah@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"u1","clerkUserId":"user_2abc","username":"sarah","email":"sarah@example.com"}}`))
	})

	user, err := c.FindOrCreateUser(context.Background(), "sarah@example.com", "sarah")
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", user.ClerkUserID)
	assert.Equal(t, "sarah", user.Username)
}
